package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/marginalia/internal/config"
	httpAdapter "github.com/aretw0/marginalia/pkg/adapters/http"
	"github.com/aretw0/marginalia/pkg/observability"
	"github.com/aretw0/marginalia/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// ShutdownTimeout bounds graceful shutdown of the HTTP listeners.
const ShutdownTimeout = 5 * time.Second

// ServeOptions configures RunServe.
type ServeOptions struct {
	Config    *config.Config
	Clipboard ports.Clipboard
	Logger    *slog.Logger
	Out       io.Writer

	// WatchPath, when set, also keeps an engine attached to the file.
	// Its lifecycle events feed /metrics.
	WatchPath string
}

// RunServe exposes the snapshot operations over HTTP until ctx ends.
func RunServe(ctx context.Context, opts ServeOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	handler := httpAdapter.NewHandler(httpAdapter.Options{
		Cascade:   opts.Config.Cascade(),
		Clipboard: opts.Clipboard,
		Truncate:  opts.Config.Panel.Truncate,
		Gatherer:  reg,
	})
	srv := httpAdapter.NewServer(fmt.Sprintf(":%d", opts.Config.HTTP.Port), handler)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if opts.WatchPath != "" {
		go func() {
			err := RunWatch(ctx, WatchOptions{
				Path:      opts.WatchPath,
				Config:    opts.Config,
				Clipboard: opts.Clipboard,
				Logger:    logger,
				Hooks:     metrics.Hooks(),
				Out:       opts.Out,
			})
			if err != nil {
				logger.Error("Watcher stopped", "path", opts.WatchPath, "err", err)
			}
		}()
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting Marginalia Server", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, stop := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Graceful shutdown did not complete", "timeout", ShutdownTimeout, "err", err)
		return srv.Close()
	}
	return nil
}
