package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/JonMunkholm/tsimport/internal/config"
	"github.com/JonMunkholm/tsimport/internal/logging"
	"github.com/JonMunkholm/tsimport/internal/settings"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd(config.Load).ExecuteContext(ctx)
	stop()
	if err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// app carries the configuration shared by every subcommand. It is filled in
// by the root command before any subcommand runs.
type app struct {
	loadConfig func() (*config.Config, error)
	cfg        *config.Config
}

func newRootCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	a := &app{loadConfig: loadConfig}

	rootCmd := &cobra.Command{
		Use:   "tsimport",
		Short: "Import time series tables and manage default analysis parameters",
		Long: `Import delimited and spreadsheet time series tables, serve them over HTTP
and manage the stored default analysis parameters.

Configuration is read from the environment and an optional .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
			a.cfg = cfg
			return nil
		},
	}

	rootCmd.AddCommand(
		newServeCmd(a),
		newImportCmd(a),
		newSettingsCmd(a),
	)
	return rootCmd
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), a.cfg)
		},
	}
}

// openStore returns the configured settings store and a function releasing
// its resources.
func openStore(ctx context.Context, cfg *config.Config) (settings.Store, func(), error) {
	if strings.ToLower(cfg.Settings.Backend) != config.BackendPostgres {
		store := settings.NewFileStore(cfg.Settings.Path)
		slog.Debug("settings file", "path", store.Path())
		return store, func() {}, nil
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.Settings.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.Settings.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	if u, err := url.Parse(cfg.Settings.DatabaseURL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	}

	store := settings.NewPostgresStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return store, pool.Close, nil
}
