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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"triggerOracle/internal/chain"
	"triggerOracle/internal/component"
	"triggerOracle/internal/config"
	"triggerOracle/internal/metrics"
	"triggerOracle/internal/storage"
	"triggerOracle/internal/storage/postgres"
	"triggerOracle/internal/trigger"
	"triggerOracle/internal/watcher"
)

func runWatch(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadWatch(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	addresses, err := watcher.ParseAddresses(cfg.Addresses)
	if err != nil {
		return err
	}
	if len(addresses) == 0 {
		return fmt.Errorf("address list is required")
	}
	kind, err := trigger.ParseKind(cfg.Component.Kind)
	if err != nil {
		return err
	}

	registry, err := buildRegistry(cfg.Component, logger)
	if err != nil {
		return err
	}
	comp, err := selectComponent(registry, cfg.Component.Component)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	var (
		sink       storage.Storage
		checkpoint watcher.Checkpointer
	)
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if err := store.Migrate(ctx); err != nil {
			return err
		}
		stateName := cfg.StateName
		if stateName == "" {
			stateName = fmt.Sprintf("%s:%s", comp.Name(), kind)
		}
		sink = store
		if cfg.CheckpointEnabled {
			checkpoint = watcher.NewStoreCheckpoint(store, stateName)
		}
	} else {
		sink = storage.NewJsonlStorage(cfg.Out)
		checkpoint = watcher.NewFileCheckpoint(cfg.Checkpoint, cfg.CheckpointEnabled)
	}

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		return err
	}
	if cfg.MetricsListen != "" {
		go serveMetrics(ctx, cfg.MetricsListen, reg, logger)
	}

	runner := watcher.NewRunner(watcher.RunConfig{
		FromBlock:    cfg.FromBlock,
		ToBlock:      cfg.ToBlock,
		Addresses:    addresses,
		Kind:         kind,
		BatchSize:    cfg.BatchSize,
		Concurrency:  cfg.Concurrency,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		PollInterval: cfg.PollInterval,
	}, chainClient, comp, component.NewInvoker(logger, m), sink, checkpoint, m, logger)

	logger.Info("watcher start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("component", comp.Name()),
		zap.String("kind", string(kind)),
		zap.Uint64("from", cfg.FromBlock),
		zap.Uint64("to", cfg.ToBlock),
		zap.Int("addresses", len(addresses)),
		zap.Uint64("batch_size", cfg.BatchSize),
		zap.Int("concurrency", cfg.Concurrency),
		zap.Bool("postgres", cfg.PGDSN != ""),
		zap.Duration("poll_interval", cfg.PollInterval),
	)

	err = runner.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("watcher stopped")
		return nil
	}
	return err
}

func serveMetrics(ctx context.Context, addr string, gatherer prometheus.Gatherer, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics server start", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server failed", zap.Error(err))
	}
}
