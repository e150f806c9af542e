package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/tsimport/internal/config"
	"github.com/JonMunkholm/tsimport/internal/importer"
	"github.com/JonMunkholm/tsimport/internal/metrics"
	"github.com/JonMunkholm/tsimport/internal/tabular"
	"github.com/JonMunkholm/tsimport/internal/viewer"
	"github.com/JonMunkholm/tsimport/internal/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func runServe(ctx context.Context, cfg *config.Config) error {
	slog.Info("configuration loaded", "config", cfg.String())

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	params, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load default parameters: %w", err)
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("stored default parameters: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	limiter := importer.NewLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWait)
	server := web.NewServer(cfg, web.Deps{
		Resolver: importer.NewResolver(tabular.NewLoader(cfg.Import.MaxFileSize), m),
		Limiter:  limiter,
		Viewers:  viewer.NewRegistry(m.SetOpenViewers),
		Store:    store,
		Params:   params,
		Gatherer: reg,
	})

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Server.Addr())
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if n := limiter.Active(); n > 0 {
		slog.Info("waiting for imports to complete", "active", n)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("server stopped")
	return nil
}
