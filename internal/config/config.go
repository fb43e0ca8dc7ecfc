// Package config provides configuration management for the documentation
// server using Viper for flexible loading from files, environment variables
// and command-line flags.
//
// The configuration system supports YAML files, environment variable overrides
// with the CARODOCS_ prefix and validation. It covers server binding, site
// identity (name, project and repository links, metadata and navigation
// files), locale negotiation, the content directory and development options
// like live reload. Locale misconfiguration is rejected at load time so the
// server never starts with an unusable locale set.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ayden94/caro-kann-docs/internal/locale"
	"github.com/ayden94/caro-kann-docs/internal/validation"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server" yaml:"server"`
	Site        SiteConfig        `mapstructure:"site" yaml:"site"`
	I18n        I18nConfig        `mapstructure:"i18n" yaml:"i18n"`
	Content     ContentConfig     `mapstructure:"content" yaml:"content"`
	Development DevelopmentConfig `mapstructure:"development" yaml:"development"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port" yaml:"port"`
	Host            string        `mapstructure:"host" yaml:"host"`
	Environment     string        `mapstructure:"environment" yaml:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type SiteConfig struct {
	Name               string `mapstructure:"name" yaml:"name"`
	LogoText           string `mapstructure:"logo_text" yaml:"logo_text"`
	ProjectLink        string `mapstructure:"project_link" yaml:"project_link"`
	DocsRepositoryBase string `mapstructure:"docs_repository_base" yaml:"docs_repository_base"`
	Feedback           bool   `mapstructure:"feedback" yaml:"feedback"`
	MetadataFile       string `mapstructure:"metadata_file" yaml:"metadata_file"`
	NavigationFile     string `mapstructure:"navigation_file" yaml:"navigation_file"`
}

type I18nConfig struct {
	Locales          []string `mapstructure:"locales" yaml:"locales"`
	DefaultLocale    string   `mapstructure:"default_locale" yaml:"default_locale"`
	CookieName       string   `mapstructure:"cookie_name" yaml:"cookie_name"`
	ExcludedPrefixes []string `mapstructure:"excluded_prefixes" yaml:"excluded_prefixes"`
	RedirectStatus   int      `mapstructure:"redirect_status" yaml:"redirect_status"`
}

type ContentConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

type DevelopmentConfig struct {
	HotReload bool          `mapstructure:"hot_reload" yaml:"hot_reload"`
	Debounce  time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Defaults mirror the original deployment: English and Korean, English first.
var (
	DefaultLocales     = []string{"en", "ko"}
	DefaultLocale      = "en"
	DefaultContentDir  = "./content"
	DefaultProjectLink = "https://github.com/ayden94/caro-kann"
	DefaultShutdown    = 10 * time.Second
	DefaultDebounce    = 300 * time.Millisecond
	validLogLevels     = []string{"debug", "info", "warn", "error"}
	validLogFormats    = []string{"text", "json", "pretty"}
	validEnvironments  = []string{"development", "production", "testing"}
	dangerousHostChars = []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\"}
	dangerousPathChars = []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
)

// EnvPrefix is the prefix of environment variables that override settings,
// as in CARODOCS_SERVER_PORT or CARODOCS_I18N_DEFAULT_LOCALE.
const EnvPrefix = "CARODOCS"

// BindEnvironment makes v read CARODOCS_ variables for every key, with dots
// and dashes in the key replaced by underscores.
func BindEnvironment(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// setDefaults registers every key with v. Unmarshal only visits keys viper
// knows about, so a key without a default would never see its environment
// variable.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.environment", d.Server.Environment)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)

	v.SetDefault("site.name", d.Site.Name)
	v.SetDefault("site.project_link", d.Site.ProjectLink)
	v.SetDefault("site.feedback", d.Site.Feedback)
	v.SetDefault("site.metadata_file", d.Site.MetadataFile)
	v.SetDefault("site.navigation_file", d.Site.NavigationFile)

	v.SetDefault("i18n.locales", d.I18n.Locales)
	v.SetDefault("i18n.default_locale", d.I18n.DefaultLocale)
	v.SetDefault("i18n.cookie_name", d.I18n.CookieName)
	v.SetDefault("i18n.excluded_prefixes", d.I18n.ExcludedPrefixes)
	v.SetDefault("i18n.redirect_status", d.I18n.RedirectStatus)

	v.SetDefault("content.dir", d.Content.Dir)
	v.SetDefault("development.debounce", d.Development.Debounce)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)

	// No static default: empty, or derived from other keys after Unmarshal.
	for _, key := range []string{
		"server.allowed_origins",
		"site.logo_text",
		"site.docs_repository_base",
		"development.hot_reload",
	} {
		_ = v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")))
	}
}

// Load reads the configuration from the global viper instance, fills in
// defaults and validates the result.
func Load() (*Config, error) {
	setDefaults(viper.GetViper())

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.Site.LogoText == "" {
		config.Site.LogoText = config.Site.Name
	}
	if config.Site.DocsRepositoryBase == "" {
		config.Site.DocsRepositoryBase = config.Site.ProjectLink
	}

	// Live reload follows the environment unless set explicitly
	if viper.IsSet("development.hot_reload") {
		config.Development.HotReload = viper.GetBool("development.hot_reload")
	} else {
		config.Development.HotReload = config.Server.Environment == "development"
	}

	if level := viper.GetString("log-level"); level != "" {
		config.Logging.Level = level
	}

	// Validate configuration values
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LocaleConfig builds the immutable locale configuration from the i18n
// section.
func (c *Config) LocaleConfig() (locale.Config, error) {
	return locale.NewConfig(
		c.I18n.Locales,
		c.I18n.DefaultLocale,
		locale.WithCookieName(c.I18n.CookieName),
		locale.WithExcludedPrefixes(c.I18n.ExcludedPrefixes...),
		locale.WithRedirectStatus(c.I18n.RedirectStatus),
	)
}

// Address returns the host:port the server binds to.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := validateSiteConfig(&config.Site); err != nil {
		return fmt.Errorf("site config: %w", err)
	}

	if _, err := config.LocaleConfig(); err != nil {
		return fmt.Errorf("i18n config: %w", err)
	}

	if err := validatePath(config.Content.Dir); err != nil {
		return fmt.Errorf("content config: invalid dir '%s': %w", config.Content.Dir, err)
	}

	if err := validateLoggingConfig(&config.Logging); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// validateServerConfig validates server configuration values
func validateServerConfig(config *ServerConfig) error {
	// Validate port range (allow 0 for system-assigned ports in testing)
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Port)
	}

	if config.Host != "" {
		if err := validateHostname(config.Host); err != nil {
			return fmt.Errorf("host %q: %w", config.Host, err)
		}
	}

	if config.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown_timeout cannot be negative")
	}

	return nil
}

func validateSiteConfig(config *SiteConfig) error {
	for field, link := range map[string]string{
		"project_link":         config.ProjectLink,
		"docs_repository_base": config.DocsRepositoryBase,
	} {
		if link == "" {
			continue
		}
		if err := validation.ValidateURL(link); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}

	for _, path := range []string{config.MetadataFile, config.NavigationFile} {
		if path == "" {
			continue
		}
		if err := validatePath(path); err != nil {
			return fmt.Errorf("invalid data file '%s': %w", path, err)
		}
	}

	return nil
}

func validateLoggingConfig(config *LoggingConfig) error {
	if !contains(validLogLevels, strings.ToLower(config.Level)) {
		return fmt.Errorf("unknown log level %q (valid: %s)", config.Level, strings.Join(validLogLevels, ", "))
	}
	if !contains(validLogFormats, strings.ToLower(config.Format)) {
		return fmt.Errorf("unknown log format %q (valid: %s)", config.Format, strings.Join(validLogFormats, ", "))
	}
	return nil
}

// validatePath validates a file path for security
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	// Clean the path
	cleanPath := filepath.Clean(path)

	// Reject path traversal attempts
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	for _, char := range dangerousPathChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}
