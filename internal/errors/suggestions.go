package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorSuggestion represents a suggestion for fixing an error
type ErrorSuggestion struct {
	Title       string
	Description string
	Command     string
	Example     string
}

// SuggestionContext provides context for generating suggestions
type SuggestionContext struct {
	ConfigPath string
	ContentDir string
	Locales    []string
}

// ServerStartError generates suggestions for server startup failures
func ServerStartError(err error, port int, ctx *SuggestionContext) []ErrorSuggestion {
	suggestions := []ErrorSuggestion{}

	errStr := err.Error()

	if strings.Contains(errStr, "address already in use") || strings.Contains(errStr, "bind") {
		suggestions = append(suggestions,
			ErrorSuggestion{
				Title:       "Port already in use",
				Description: fmt.Sprintf("Port %d is already being used by another process", port),
				Command:     fmt.Sprintf("lsof -i :%d", port),
			},
			ErrorSuggestion{
				Title:       "Use a different port",
				Description: "Start the server on a different port",
				Command:     fmt.Sprintf("carodocs serve --port %d", port+1),
			},
		)
	}

	if strings.Contains(errStr, "permission denied") && port < 1024 {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Use unprivileged port",
			Description: "Ports below 1024 require root privileges",
			Command:     "carodocs serve --port 3000",
		})
	}

	return suggestions
}

// ConfigurationError generates suggestions for configuration issues
func ConfigurationError(configError string, ctx *SuggestionContext) []ErrorSuggestion {
	configPath := ".carodocs.yml"
	if ctx != nil && ctx.ConfigPath != "" {
		configPath = ctx.ConfigPath
	}

	suggestions := []ErrorSuggestion{
		{
			Title:       "Validate configuration",
			Description: "Use the config validate command to list every issue",
			Command:     "carodocs config validate",
		},
	}

	if strings.Contains(configError, "yaml") || strings.Contains(configError, "unmarshal") || strings.Contains(configError, "decoding") {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Fix YAML syntax",
			Description: "There's a syntax error in " + configPath,
			Example:     "Use proper indentation and avoid tabs",
		})
	}

	if strings.Contains(configError, "locale") {
		example := "i18n:\n  locales: [en, ko]\n  default_locale: en"
		if ctx != nil && len(ctx.Locales) > 0 {
			example = fmt.Sprintf("i18n:\n  locales: [%s]\n  default_locale: %s", strings.Join(ctx.Locales, ", "), ctx.Locales[0])
		}
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Check the locale set",
			Description: "Locales must be unique language codes and include the default locale",
			Example:     example,
		})
	}

	if strings.Contains(configError, "path") || strings.Contains(configError, "dir") {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Check directory paths",
			Description: "Paths must be relative to the project and must not contain '..'",
		})
	}

	return suggestions
}

// ContentError generates suggestions for pages that failed to load
func ContentError(err error, ctx *SuggestionContext) []ErrorSuggestion {
	contentDir := "./content"
	if ctx != nil && ctx.ContentDir != "" {
		contentDir = ctx.ContentDir
	}

	suggestions := []ErrorSuggestion{
		{
			Title:       "Check the content layout",
			Description: "Pages live at <dir>/<locale>/<route>.md or <dir>/<locale>/<route>/index.md",
			Command:     "ls -R " + contentDir,
		},
	}

	if strings.Contains(err.Error(), "front matter") {
		suggestions = append(suggestions, ErrorSuggestion{
			Title:       "Fix front matter",
			Description: "Front matter is YAML between two '---' lines at the top of the file",
			Example:     "---\ntitle: Create a store\n---",
		})
	}

	return suggestions
}

// WebSocketError generates suggestions for rejected live reload connections
func WebSocketError(err error) []ErrorSuggestion {
	var de *DocsError
	if !errors.As(err, &de) {
		return nil
	}

	switch de.Code {
	case ErrCodeInvalidOrigin:
		return []ErrorSuggestion{{
			Title:       "Origin validation failed",
			Description: "Add the page origin to server.allowed_origins",
			Example:     "server:\n  allowed_origins: [\"http://docs.localhost:3000\"]",
		}}
	case ErrCodeConnectionLimit:
		return []ErrorSuggestion{{
			Title:       "Too many open pages",
			Description: "Each open documentation tab holds one live reload connection; close unused tabs",
		}}
	case ErrCodeWebSocket:
		return []ErrorSuggestion{{
			Title:       "Upgrade failed",
			Description: "A proxy in front of the server must forward the Upgrade and Connection headers",
		}}
	}
	return nil
}

// FormatSuggestions formats suggestions into a user-friendly string
func FormatSuggestions(title string, suggestions []ErrorSuggestion) string {
	if len(suggestions) == 0 {
		return title
	}

	var output strings.Builder
	output.WriteString(title + "\n\n")
	output.WriteString("Suggestions:\n")

	for i, suggestion := range suggestions {
		output.WriteString(fmt.Sprintf("  %d. %s\n", i+1, suggestion.Title))
		if suggestion.Description != "" {
			output.WriteString(fmt.Sprintf("     %s\n", suggestion.Description))
		}
		if suggestion.Command != "" {
			output.WriteString(fmt.Sprintf("     Run: %s\n", suggestion.Command))
		}
		if suggestion.Example != "" {
			output.WriteString(fmt.Sprintf("     Example: %s\n", suggestion.Example))
		}
		output.WriteString("\n")
	}

	return output.String()
}

// EnhancedError wraps an error with suggestions
type EnhancedError struct {
	OriginalError error
	Title         string
	Suggestions   []ErrorSuggestion
}

// Error implements the error interface
func (e *EnhancedError) Error() string {
	title := e.Title
	if e.OriginalError != nil {
		title += ": " + e.OriginalError.Error()
	}
	return FormatSuggestions(title, e.Suggestions)
}

// Unwrap returns the original error
func (e *EnhancedError) Unwrap() error {
	return e.OriginalError
}

// NewEnhancedError creates a new enhanced error with suggestions
func NewEnhancedError(title string, originalError error, suggestions []ErrorSuggestion) *EnhancedError {
	return &EnhancedError{
		OriginalError: originalError,
		Title:         title,
		Suggestions:   suggestions,
	}
}
