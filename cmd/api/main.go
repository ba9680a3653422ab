package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"intrinsic_valuation/pkg/api/router"
	"intrinsic_valuation/pkg/core/config"
	"intrinsic_valuation/pkg/core/logging"
	"intrinsic_valuation/pkg/core/marketdata"
	"intrinsic_valuation/pkg/core/metrics"
	"intrinsic_valuation/pkg/core/store"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	presets, closePresets, err := store.FromConfig(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("preset store: %w", err)
	}
	defer closePresets()

	prices, closePrices := marketdata.FromConfig(cfg, log, m)
	defer closePrices()

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: router.New(router.Deps{
			Log:            log,
			Metrics:        m,
			Prices:         prices,
			Presets:        presets,
			AllowedOrigins: cfg.Server.AllowedOrigins,
			MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("API server starting",
			zap.String("addr", cfg.Server.Addr),
			zap.Bool("postgres", cfg.Database.URL != ""),
			zap.Bool("redis_cache", cfg.Redis.Addr != ""),
			zap.Strings("routes", []string{
				"GET  /api/health",
				"POST /api/cost-of-capital",
				"POST /api/dcf",
				"POST /api/dcf/report",
				"GET  /api/history",
				"GET  /api/tickers",
				"GET  /api/tickers/{ticker}/inputs",
				"GET  /metrics",
			}),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
