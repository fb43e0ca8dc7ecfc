package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ayden94/caro-kann-docs/internal/locale"
	"gopkg.in/yaml.v3"
)

// Default returns the configuration Load produces when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3000,
			Host:            "localhost",
			Environment:     "development",
			ShutdownTimeout: DefaultShutdown,
		},
		Site: SiteConfig{
			Name:               "Caro-Kann",
			LogoText:           "Caro-Kann",
			ProjectLink:        DefaultProjectLink,
			DocsRepositoryBase: DefaultProjectLink,
		},
		I18n: I18nConfig{
			Locales:          append([]string(nil), DefaultLocales...),
			DefaultLocale:    DefaultLocale,
			CookieName:       locale.DefaultCookieName,
			ExcludedPrefixes: append([]string(nil), locale.DefaultExcludedPrefixes...),
			RedirectStatus:   locale.DefaultRedirectStatus,
		},
		Content: ContentConfig{Dir: DefaultContentDir},
		Development: DevelopmentConfig{
			HotReload: true,
			Debounce:  DefaultDebounce,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Marshal renders the configuration as YAML with human-readable durations.
func Marshal(cfg *Config) ([]byte, error) {
	doc := map[string]any{
		"server": map[string]any{
			"port":             cfg.Server.Port,
			"host":             cfg.Server.Host,
			"environment":      cfg.Server.Environment,
			"allowed_origins":  cfg.Server.AllowedOrigins,
			"shutdown_timeout": cfg.Server.ShutdownTimeout.String(),
		},
		"site":    cfg.Site,
		"i18n":    cfg.I18n,
		"content": cfg.Content,
		"development": map[string]any{
			"hot_reload": cfg.Development.HotReload,
			"debounce":   cfg.Development.Debounce.String(),
		},
		"logging": cfg.Logging,
	}

	var buf bytes.Buffer
	buf.WriteString("# carodocs configuration file\n\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding configuration: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes cfg to filename. An existing file is only replaced when
// overwrite is set.
func WriteFile(filename string, cfg *Config, overwrite bool) error {
	if _, err := os.Stat(filename); err == nil && !overwrite {
		return fmt.Errorf("configuration file %s already exists", filename)
	}

	content, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(filename, content, 0o644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}
