package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task-manager/internal/config"
	"task-manager/internal/httpapi"
	"task-manager/internal/observability/jsonlog"
	"task-manager/internal/store"
	"task-manager/internal/task"
	"task-manager/internal/web"
)

func main() {
	logger := jsonlog.New(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config_invalid", map[string]any{"err": err})
		os.Exit(1)
	}
	logger = jsonlog.NewWithLevel(os.Stdout, jsonlog.ParseLevel(cfg.LogLevel))

	// Root context cancelled on SIGINT/SIGTERM
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(rootCtx, cfg, logger); err != nil {
		logger.Error("fatal", map[string]any{"err": err})
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *jsonlog.Logger) error {
	st, err := store.Open(ctx, store.Options{
		Driver:          cfg.DBDriver,
		URL:             cfg.DBURL,
		ConnectAttempts: cfg.DBConnectAttempts,
		Backoff:         store.DefaultBackoff(),
	}, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(cfg, st, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", map[string]any{"addr": srv.Addr, "driver": cfg.DBDriver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutdown_signal_received", nil)

	// Stop accepting new requests; wait for in-flight with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http_shutdown_error", map[string]any{"err": err})
	}
	logger.Info("bye", nil)
	return nil
}

func newHandler(cfg config.Config, st store.Store, logger *jsonlog.Logger) http.Handler {
	svc := task.NewService(st)
	return httpapi.NewServer(svc, st, logger, httpapi.Options{
		MaxBodyBytes:   cfg.MaxBodyBytes,
		RequestTimeout: cfg.RequestTimeout,
		Dashboard:      web.NewDashboard(svc, logger),
	})
}
