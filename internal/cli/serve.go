package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/propdesk/backoffice/internal/config"
	"github.com/propdesk/backoffice/internal/logging"
	"github.com/propdesk/backoffice/internal/web"
)

func newServeCmd() *cobra.Command {
	var port int
	var envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the HTTP server for the JSON API. Settings come from PD_* environment variables and an optional .env file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			if flagDB != "" {
				cfg.DBPath = flagDB
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
				if os.Getenv("PD_BASE_URL") == "" {
					cfg.BaseURL = fmt.Sprintf("http://localhost:%d", port)
				}
			}
			return runServe(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on (overrides PD_PORT)")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to load")

	return cmd
}

// startupBanner tells the operator where the server is reachable.
func startupBanner(cfg config.Config) string {
	return fmt.Sprintf("propdesk API on %s (listening on %s, database %s)\nPoint the CLI at it with: pd config set-server %s\n",
		cfg.BaseURL, cfg.Addr(), cfg.DBPath, cfg.BaseURL)
}

func runServe(ctx context.Context, w io.Writer, cfg config.Config) error {
	logging.Setup(cfg.DevMode)

	database, err := openDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer closeDB(database)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprint(w, startupBanner(cfg))
	slog.Info("serving", "db", cfg.DBPath, "base_url", cfg.BaseURL, "dev_mode", cfg.DevMode)
	return web.NewServer(database).ListenAndServe(ctx, cfg.Addr())
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flagDB
			if path == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				path = cfg.DBPath
			}

			database, err := openDB(path)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			closeDB(database)

			fmt.Fprintf(cmd.OutOrStdout(), "Database ready at %s\n", path)
			return nil
		},
	}
}
