// Package cmd provides the carodocs command-line interface.
//
// Configuration System:
//
//	Settings are read from several sources, highest priority first:
//	1. Command-line flags (--port, --content, ...)
//	2. Environment variables with the CARODOCS_ prefix (CARODOCS_SERVER_PORT)
//	3. A .env file in the working directory
//	4. The configuration file (--config, CARODOCS_CONFIG_FILE or .carodocs.yml)
//	5. Built-in defaults
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ayden94/caro-kann-docs/internal/config"
	"github.com/ayden94/caro-kann-docs/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfigFile = ".carodocs.yml"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "carodocs",
	Short: "Localized documentation server for caro-kann",
	Long: `carodocs serves the caro-kann documentation in every configured language.

Requests without a locale prefix are redirected to the reader's language,
chosen from the NEXT_LOCALE cookie, then the Accept-Language header, then the
default locale.

Quick Start:
  carodocs serve                  Start the documentation server
  carodocs resolve /guides        Show where a request would be sent
  carodocs routes                 List the documentation pages
  carodocs config init            Write a starter .carodocs.yml

Documentation: https://github.com/ayden94/caro-kann`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .carodocs.yml, can also use CARODOCS_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text, json, pretty)")
	bindFlags(rootCmd.PersistentFlags(), map[string]string{
		"log-level":  "log-level",
		"log-format": "logging.format",
	})
}

// initConfig wires viper to the configuration file and the environment.
// A .env file is loaded first so its values show up as CARODOCS_ variables.
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Ignoring .env:", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("CARODOCS_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".carodocs")
	}

	config.BindEnvironment(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig loads the resolved configuration, attaching suggestions when
// it is invalid.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		path := viper.ConfigFileUsed()
		if path == "" {
			path = defaultConfigFile
		}
		return nil, newConfigError(err, path)
	}
	return cfg, nil
}

// newLogger builds the logger described by the logging section.
func newLogger(cfg *config.Config) (logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	}), nil
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
