package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"triggerOracle/internal/component"
	"triggerOracle/internal/config"
	"triggerOracle/internal/metrics"
	"triggerOracle/internal/server"
	"triggerOracle/internal/storage"
	"triggerOracle/internal/storage/postgres"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadServe(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	registry, err := buildRegistry(cfg.Component, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sink storage.Storage
	switch {
	case cfg.PGDSN != "":
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if err := store.Migrate(ctx); err != nil {
			return err
		}
		sink = store
	case cfg.Out != "":
		sink = storage.NewJsonlStorage(cfg.Out)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		return err
	}

	srv, err := server.New(registry, component.NewInvoker(logger, m), sink, reg, logger)
	if err != nil {
		return err
	}

	logger.Info("serve start",
		zap.String("listen", cfg.Listen),
		zap.Strings("components", registry.Names()),
		zap.Bool("postgres", cfg.PGDSN != ""),
		zap.String("out", cfg.Out),
	)
	return srv.Run(ctx, cfg.Listen)
}
