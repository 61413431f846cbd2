package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/config"
	httpAdapter "github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/adapters/http"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/adapters/memory"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ShutdownTimeout bounds how long outstanding requests may take once shutdown starts.
const ShutdownTimeout = 5 * time.Second

// NewServerHandler builds the HTTP handler with metrics and, when Redis is
// configured, the model registry. The returned cleanup closes the registry.
func NewServerHandler(ctx context.Context, cfg *config.Config, logger *slog.Logger) (http.Handler, func(), error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	store := newModelStore(cfg)
	cleanup := func() {
		if store != nil {
			_ = store.Close()
		}
	}

	// Metrics hooks need the model labels, so the model is loaded up front.
	m, err := newLoader(cfg, store, logger).Load(ctx)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to load model: %w", err)
	}
	engine, err := createEngine(ctx, cfg, memory.NewLoader(m), logger, metrics.Hooks(m.Labels()))
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	opts := []httpAdapter.Option{
		httpAdapter.WithLogger(logger),
		httpAdapter.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		httpAdapter.WithMaxPatients(cfg.Server.MaxPatients),
	}
	if store != nil {
		opts = append(opts, httpAdapter.WithStore(store))
	}
	return httpAdapter.NewHandler(engine, opts...), cleanup, nil
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down gracefully.
func Serve(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) error {
	handler, cleanup, err := NewServerHandler(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	printSystemMessage(out, "Starting Markov Server on %s", srv.Addr)
	go func() {
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		if sig := signalOf(ctx); sig != nil {
			logger.Info("Stopping server (signal received)", "signal", sig)
		}
		printSystemMessage(out, "Start shutdown...")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", ShutdownTimeout, "error", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		printSystemMessage(out, "Markov Server stopped gracefully")
		return nil
	}
}
