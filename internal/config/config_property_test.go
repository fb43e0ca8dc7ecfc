package config

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestConfigurationProperties checks that the fail-fast validator used by
// Load and the detailed validator agree.
func TestConfigurationProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("detailed and fail-fast validation agree", prop.ForAll(
		func(port int, def string, level string, status int) bool {
			cfg := Default()
			cfg.Content.Dir = t.TempDir()
			cfg.Server.Port = port
			cfg.I18n.DefaultLocale = def
			cfg.Logging.Level = level
			cfg.I18n.RedirectStatus = status

			failFast := validateConfig(cfg)
			detailed := ValidateConfigWithDetails(cfg)

			return (failFast == nil) == detailed.Valid
		},
		gen.IntRange(-10, 70000),
		gen.OneConstOf("en", "ko", "fr", "", "EN"),
		gen.OneConstOf("debug", "info", "warn", "error", "trace", "INFO"),
		gen.OneConstOf(301, 302, 303, 307, 308, 200, 404),
	))

	properties.Property("valid ports never produce port errors", prop.ForAll(
		func(port int) bool {
			cfg := Default()
			cfg.Server.Port = port
			result := &ValidationResult{}
			validateServerConfigDetails(&cfg.Server, result)
			return !result.HasErrors()
		},
		gen.IntRange(0, 65535),
	))

	properties.TestingRun(t)
}
