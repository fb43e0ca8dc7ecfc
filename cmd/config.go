package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ayden94/caro-kann-docs/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage carodocs configuration",
	Long: `Manage carodocs configuration files and settings.

Examples:
  carodocs config init                 # Write a starter .carodocs.yml
  carodocs config validate             # Validate .carodocs.yml
  carodocs config show                 # Show the resolved configuration
  carodocs config validate --file docs.yml`,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a carodocs configuration file.

This command checks for:
- Valid port ranges and hostnames
- A usable locale set with the default locale among the locales
- Existing navigation, metadata and content paths
- Settings that are unsafe in production

Examples:
  carodocs config validate                  # Validate .carodocs.yml
  carodocs config validate --file docs.yml  # Validate a specific file
  carodocs config validate --strict         # Treat warnings as errors`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the configuration after the file, environment variables, flags
and defaults have been applied.

Examples:
  carodocs config show                 # YAML
  carodocs config show --format json   # JSON`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Write a configuration file holding every setting at its default value.

Examples:
  carodocs config init                   # Write .carodocs.yml
  carodocs config init --force           # Overwrite an existing file
  carodocs config init --output docs.yml`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var (
	configFile   string
	configFormat string
	configOutput string
	configStrict bool
	configForce  bool
)

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	configValidateCmd.Flags().
		StringVarP(&configFile, "file", "f", "", "Configuration file to validate (default: .carodocs.yml)")
	configValidateCmd.Flags().BoolVar(&configStrict, "strict", false, "Treat warnings as errors")

	configShowCmd.Flags().StringVar(&configFormat, "format", "yaml", "Output format (yaml, json)")

	configInitCmd.Flags().StringVarP(&configOutput, "output", "o", defaultConfigFile, "File to write")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	targetFile := configFile
	if targetFile == "" {
		if _, err := os.Stat(defaultConfigFile); err != nil {
			return errors.New("no configuration file found. Use --file to specify a config file " +
				"or run 'carodocs config init' to create one")
		}
		targetFile = defaultConfigFile
	}

	if _, err := os.Stat(targetFile); os.IsNotExist(err) {
		return fmt.Errorf("configuration file %s does not exist", targetFile)
	}

	fmt.Fprintf(out, "🔍 Validating configuration file: %s\n", targetFile)

	cfg, err := readConfigFile(targetFile)
	if err != nil {
		return err
	}

	validation := config.ValidateConfigWithDetails(cfg)

	if validation.Valid && !validation.HasWarnings() {
		fmt.Fprintln(out, "✅ Configuration is valid!")
		return nil
	}

	fmt.Fprint(out, validation.String())

	if validation.HasErrors() {
		return fmt.Errorf("configuration validation failed with %d errors", len(validation.Errors))
	}

	if configStrict {
		return fmt.Errorf(
			"configuration validation failed in strict mode with %d warnings",
			len(validation.Warnings),
		)
	}

	fmt.Fprintf(out, "✅ Configuration is valid with %d warnings. Use --strict to treat warnings as errors.\n",
		len(validation.Warnings))
	return nil
}

// readConfigFile decodes filename over the default configuration, so keys
// the file leaves out keep their default values.
func readConfigFile(filename string) (*config.Config, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	cfg := config.Default()
	// Decoding into a non-nil slice overwrites by index and keeps the tail
	if v.IsSet("i18n.locales") {
		cfg.I18n.Locales = nil
	}
	if v.IsSet("i18n.excluded_prefixes") {
		cfg.I18n.ExcludedPrefixes = nil
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return cfg, nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return showConfig(cmd.OutOrStdout(), cfg, configFormat)
}

func showConfig(w io.Writer, cfg *config.Config, format string) error {
	switch format {
	case "yaml", "yml":
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "json":
		return writeOutput(w, "json", cfg, nil)
	default:
		return fmt.Errorf("unsupported format: %s (supported: yaml, json)", format)
	}
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if err := config.WriteFile(configOutput, config.Default(), configForce); err != nil {
		if !configForce {
			return fmt.Errorf("%w (use --force to overwrite)", err)
		}
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Configuration written to %s\n", configOutput)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  1. Review the configuration file")
	fmt.Fprintln(out, "  2. Run 'carodocs serve' to start the documentation server")
	return nil
}
