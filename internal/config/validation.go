package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/ayden94/caro-kann-docs/internal/locale"
	"github.com/ayden94/caro-kann-docs/internal/validation"
)

// ValidationError represents a configuration validation error with suggestions
type ValidationError struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the result of configuration validation
type ValidationResult struct {
	Valid    bool
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings
func (vr *ValidationResult) HasWarnings() bool {
	return len(vr.Warnings) > 0
}

// String returns a formatted string of all validation issues
func (vr *ValidationResult) String() string {
	var builder strings.Builder

	if len(vr.Errors) > 0 {
		builder.WriteString("❌ Validation Errors:\n")
		for _, err := range vr.Errors {
			builder.WriteString(fmt.Sprintf("  • %s: %s\n", err.Field, err.Message))
			for _, suggestion := range err.Suggestions {
				builder.WriteString(fmt.Sprintf("    💡 %s\n", suggestion))
			}
		}
		builder.WriteString("\n")
	}

	if len(vr.Warnings) > 0 {
		builder.WriteString("⚠️  Validation Warnings:\n")
		for _, warning := range vr.Warnings {
			builder.WriteString(fmt.Sprintf("  • %s: %s\n", warning.Field, warning.Message))
			for _, suggestion := range warning.Suggestions {
				builder.WriteString(fmt.Sprintf("    💡 %s\n", suggestion))
			}
		}
	}

	return builder.String()
}

func (vr *ValidationResult) addError(field string, value interface{}, message string, suggestions ...string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Value: value, Message: message, Suggestions: suggestions})
}

func (vr *ValidationResult) addWarning(field string, value interface{}, message string, suggestions ...string) {
	vr.Warnings = append(vr.Warnings, ValidationError{Field: field, Value: value, Message: message, Suggestions: suggestions})
}

// ValidateConfigWithDetails performs comprehensive validation with detailed feedback.
// Unlike Load it never stops at the first problem.
func ValidateConfigWithDetails(config *Config) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
	}

	validateServerConfigDetails(&config.Server, result)
	validateSiteConfigDetails(&config.Site, result)
	validateI18nConfigDetails(&config.I18n, result)
	validateContentConfigDetails(&config.Content, result)
	validateDevelopmentConfigDetails(&config.Development, result)
	validateLoggingConfigDetails(&config.Logging, result)

	result.Valid = !result.HasErrors()

	return result
}

func validateServerConfigDetails(config *ServerConfig, result *ValidationResult) {
	if config.Port < 0 || config.Port > 65535 {
		result.addError("server.port", config.Port,
			fmt.Sprintf("port %d is not in valid range 0-65535", config.Port),
			"Use a port between 1024-65535 for non-privileged access",
			"Common development ports: 3000, 8080, 8000, 3001",
			"Port 0 allows system to assign an available port",
		)
	} else if config.Port > 0 && config.Port < 1024 {
		result.addWarning("server.port", config.Port,
			"port below 1024 requires elevated privileges",
			"Consider using a port above 1024 for development",
		)
	}

	if config.Host != "" {
		if err := validateHostname(config.Host); err != nil {
			result.addError("server.host", config.Host, err.Error(),
				"Use 'localhost' for local development",
				"Use '0.0.0.0' to bind to all interfaces",
			)
		}
	}

	if config.Environment != "" && !contains(validEnvironments, config.Environment) {
		result.addWarning("server.environment", config.Environment,
			"unknown environment type",
			"Use 'development' for local development with live reload",
			"Use 'production' for deployments",
		)
	}

	for i, origin := range config.AllowedOrigins {
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			result.addError(fmt.Sprintf("server.allowed_origins[%d]", i), origin,
				"origin must be an absolute URL",
				"Example: http://localhost:3000",
			)
		}
	}

	if config.ShutdownTimeout < 0 {
		result.addError("server.shutdown_timeout", config.ShutdownTimeout,
			"shutdown timeout cannot be negative",
			"Use a duration like 10s",
		)
	}
}

func validateSiteConfigDetails(config *SiteConfig, result *ValidationResult) {
	if strings.TrimSpace(config.Name) == "" {
		result.addWarning("site.name", config.Name, "site name is empty",
			"The name is shown in the navbar and page titles",
		)
	}

	links := []struct {
		field string
		value string
	}{
		{"site.project_link", config.ProjectLink},
		{"site.docs_repository_base", config.DocsRepositoryBase},
	}
	for _, link := range links {
		if link.value == "" {
			continue
		}
		if err := validation.ValidateURL(link.value); err != nil {
			result.addError(link.field, link.value, err.Error(),
				"Example: "+DefaultProjectLink,
			)
		}
	}

	files := []struct {
		field string
		value string
	}{
		{"site.metadata_file", config.MetadataFile},
		{"site.navigation_file", config.NavigationFile},
	}
	for _, file := range files {
		if file.value == "" {
			continue
		}
		if err := validatePath(file.value); err != nil {
			result.addError(file.field, file.value, err.Error(),
				"Use a relative path inside the project",
			)
		} else if !pathExists(file.value) {
			result.addError(file.field, file.value, "file does not exist",
				"Leave the field empty to use the built-in data",
			)
		}
	}
}

func validateI18nConfigDetails(config *I18nConfig, result *ValidationResult) {
	_, err := locale.NewConfig(
		config.Locales,
		config.DefaultLocale,
		locale.WithCookieName(config.CookieName),
		locale.WithExcludedPrefixes(config.ExcludedPrefixes...),
		locale.WithRedirectStatus(config.RedirectStatus),
	)
	if err != nil {
		result.addError("i18n", config.Locales, err.Error(),
			"Locales are short codes like 'en' or 'ko'",
			"default_locale must be one of the locales",
			"redirect_status must be 301, 302, 303, 307 or 308",
		)
	}

	if len(config.Locales) == 1 {
		result.addWarning("i18n.locales", config.Locales,
			"only one locale configured; every request redirects to it",
		)
	}

	if !contains(config.ExcludedPrefixes, "/api") {
		result.addWarning("i18n.excluded_prefixes", config.ExcludedPrefixes,
			"'/api' is not excluded; API routes will be redirected",
			"Add '/api' to excluded_prefixes",
		)
	}
}

func validateContentConfigDetails(config *ContentConfig, result *ValidationResult) {
	if err := validatePath(config.Dir); err != nil {
		result.addError("content.dir", config.Dir, err.Error(),
			"Use a relative path such as './content'",
		)
		return
	}
	if !pathExists(config.Dir) {
		result.addWarning("content.dir", config.Dir, "content directory does not exist",
			"Pages fall back to the embedded content",
			"Create <dir>/<locale>/index.md to start writing",
		)
	}
}

func validateDevelopmentConfigDetails(config *DevelopmentConfig, result *ValidationResult) {
	if config.Debounce < 0 {
		result.addError("development.debounce", config.Debounce, "debounce cannot be negative",
			"Use a duration like 300ms",
		)
	} else if config.HotReload && config.Debounce > 0 && config.Debounce.Milliseconds() < 50 {
		result.addWarning("development.debounce", config.Debounce,
			"very short debounce may reload several times per save",
		)
	}
}

func validateLoggingConfigDetails(config *LoggingConfig, result *ValidationResult) {
	if !contains(validLogLevels, strings.ToLower(config.Level)) {
		result.addError("logging.level", config.Level, "unknown log level",
			"Available levels: "+strings.Join(validLogLevels, ", "),
		)
	}
	if !contains(validLogFormats, strings.ToLower(config.Format)) {
		result.addError("logging.format", config.Format, "unknown log format",
			"Available formats: "+strings.Join(validLogFormats, ", "),
		)
	}
}

// Helper validation functions

var hostnameRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

func validateHostname(host string) error {
	for _, char := range dangerousHostChars {
		if strings.Contains(host, char) {
			return fmt.Errorf("contains dangerous character: %s", char)
		}
	}

	if net.ParseIP(host) != nil {
		return nil
	}

	if host == "localhost" {
		return nil
	}

	if !hostnameRegex.MatchString(host) {
		return fmt.Errorf("invalid hostname format")
	}

	return nil
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
