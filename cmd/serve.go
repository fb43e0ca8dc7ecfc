package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayden94/caro-kann-docs/internal/config"
	docserrors "github.com/ayden94/caro-kann-docs/internal/errors"
	"github.com/ayden94/caro-kann-docs/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the documentation server",
	Long: `Start the documentation server.

Pages are read from the content directory (one folder per locale). When the
directory does not exist the bundled documentation is served. In the
development environment pages reload in the browser as files change.

Examples:
  carodocs serve                          # Serve on localhost:3000
  carodocs serve --port 8080              # Serve on another port
  carodocs serve --content ./docs         # Serve pages from ./docs
  carodocs serve --hot-reload=false       # Disable live reload`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 3000, "Port to serve on")
	serveCmd.Flags().String("host", "localhost", "Host to bind to")
	serveCmd.Flags().StringP("content", "c", "", "Content directory (default ./content)")
	serveCmd.Flags().Bool("hot-reload", false, "Reload pages in the browser when content changes")
	serveCmd.Flags().StringP("environment", "e", "", "Environment (development, production, testing)")
	AddFlagValidation(serveCmd, "port", ValidatePort)

	bindFlags(serveCmd.Flags(), map[string]string{
		"port":        "server.port",
		"host":        "server.host",
		"content":     "content.dir",
		"hot-reload":  "development.hot_reload",
		"environment": "server.environment",
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		return startupError(err, cfg)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Serving documentation at http://%s\n", cfg.Address())

	return srv.Start(ctx)
}

// startupError attaches suggestions to a failure from server.New. Broken
// pages and data files are recoverable content errors; anything else points
// at the configuration.
func startupError(err error, cfg *config.Config) error {
	sctx := &docserrors.SuggestionContext{
		ConfigPath: viper.ConfigFileUsed(),
		ContentDir: cfg.Content.Dir,
		Locales:    cfg.I18n.Locales,
	}
	if docserrors.IsRecoverable(err) {
		return docserrors.NewEnhancedError("Failed to load documentation", err, docserrors.ContentError(err, sctx))
	}
	return docserrors.NewEnhancedError("Failed to start documentation server", err,
		docserrors.ConfigurationError(err.Error(), sctx))
}
