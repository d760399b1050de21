package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"triggerOracle/internal/component"
	"triggerOracle/internal/config"
	"triggerOracle/internal/trigger"
)

func runOnce(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadRun(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	defaultKind, err := trigger.ParseKind(cfg.Component.Kind)
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

	input, err := openInput(cfg.In)
	if err != nil {
		return err
	}
	defer input.Close()

	outWriter, err := newJSONLWriter(cfg.Out, false)
	if err != nil {
		return err
	}
	defer outWriter.Close()

	invoker := component.NewInvoker(logger, nil)

	scanner := bufio.NewScanner(input)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var total, failed int
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		total++

		var ev trigger.Event
		if err := json.Unmarshal(line, &ev); err != nil {
			return fmt.Errorf("parse event %d: %w", total, err)
		}
		if ev.Kind == "" {
			ev.Kind = defaultKind
		}

		_, record := invoker.Invoke(ctx, comp, ev)
		if !record.Succeeded() {
			failed++
		}
		if err := outWriter.Write(record); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan input: %w", err)
	}

	logger.Info("run complete",
		zap.String("component", comp.Name()),
		zap.Int("total", total),
		zap.Int("failed", failed),
	)
	return nil
}
