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

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/edvin/statusboard/internal/api"
	"github.com/edvin/statusboard/internal/api/handler"
	"github.com/edvin/statusboard/internal/config"
	"github.com/edvin/statusboard/internal/core"
	"github.com/edvin/statusboard/internal/logging"
	"github.com/edvin/statusboard/internal/metrics"
	"github.com/edvin/statusboard/internal/monitor"
	"github.com/edvin/statusboard/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	fileStore := store.NewFileStore(cfg.TreeFile)
	root, err := fileStore.Load()
	if err != nil {
		logger.Fatal().Err(err).Str("file", cfg.TreeFile).Msg("failed to load tree")
	}
	if root == nil {
		logger.Info().Str("file", cfg.TreeFile).Msg("no tree file, starting empty")
	}

	notifications := core.NewNotificationLog(cfg.NotificationLogSize)
	stream := handler.NewStream(logger)
	metricsSink := metrics.NewSink(prometheus.DefaultRegisterer)
	tree := core.NewTreeService(root, core.MultiSink{notifications, metricsSink, stream}, logger)
	metrics.RegisterTreeGauges(prometheus.DefaultRegisterer, tree)

	services := &core.Services{Tree: tree, Notifications: notifications}
	srv := api.NewServer(logger, services, stream, cfg)

	runner := monitor.NewRunner(tree, monitor.Config{
		Timeout:     cfg.CheckTimeout,
		MaxParallel: cfg.MaxConcurrentChecks,
	}, logger)

	httpServer := &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Msg("starting statusboard server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("monitor runner: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
	}

	if err := fileStore.Save(tree.Snapshot()); err != nil {
		logger.Error().Err(err).Str("file", cfg.TreeFile).Msg("failed to save tree")
		os.Exit(1)
	}
	logger.Info().Str("file", cfg.TreeFile).Msg("tree saved")
}
