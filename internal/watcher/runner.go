package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"triggerOracle/internal/component"
	"triggerOracle/internal/model"
	"triggerOracle/internal/retry"
	"triggerOracle/internal/storage"
	"triggerOracle/internal/trigger"
)

// LogSource is the chain access the watcher needs. *chain.Client implements it.
type LogSource interface {
	ChainID(ctx context.Context) (uint64, error)
	LatestBlockNumber(ctx context.Context) (uint64, error)
	FilterLogs(ctx context.Context, fromBlock, toBlock uint64, addresses []common.Address, topic0 []common.Hash) ([]types.Log, error)
}

// ProgressObserver is notified after each committed batch.
type ProgressObserver interface {
	SetLastProcessedBlock(block uint64)
}

// RunConfig holds runtime settings for the watcher.
type RunConfig struct {
	FromBlock    uint64
	ToBlock      uint64
	Addresses    []common.Address
	Kind         trigger.Kind
	BatchSize    uint64
	Concurrency  int
	MaxRetries   int
	RetryBackoff time.Duration
	// PollInterval > 0 keeps following the chain head once caught up.
	// Ignored when ToBlock is set.
	PollInterval time.Duration
}

// Runner pulls NewTrigger logs from the chain, runs a component for each of
// them and writes one invocation record per log to storage.
type Runner struct {
	cfg        RunConfig
	source     LogSource
	component  component.Component
	invoker    *component.Invoker
	storage    storage.Storage
	checkpoint Checkpointer
	progress   ProgressObserver
	logger     *zap.Logger
	seen       map[string]struct{}
}

// NewRunner builds a Runner with its dependencies. checkpoint and progress may be nil.
func NewRunner(
	cfg RunConfig,
	source LogSource,
	comp component.Component,
	invoker *component.Invoker,
	storageSink storage.Storage,
	checkpoint Checkpointer,
	progress ProgressObserver,
	logger *zap.Logger,
) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if invoker == nil {
		invoker = component.NewInvoker(logger, nil)
	}
	return &Runner{
		cfg:        cfg,
		source:     source,
		component:  comp,
		invoker:    invoker,
		storage:    storageSink,
		checkpoint: checkpoint,
		progress:   progress,
		logger:     logger,
		seen:       make(map[string]struct{}),
	}
}

// Run executes the watch loop.
func (r *Runner) Run(ctx context.Context) error {
	if r.source == nil {
		return fmt.Errorf("log source is nil")
	}
	if r.component == nil {
		return fmt.Errorf("component is nil")
	}
	if r.storage == nil {
		return fmt.Errorf("storage is nil")
	}
	if r.cfg.BatchSize == 0 {
		return fmt.Errorf("batch size must be greater than zero")
	}
	if len(r.cfg.Addresses) == 0 {
		return fmt.Errorf("at least one address is required")
	}
	topic0, err := r.cfg.Kind.Topic0()
	if err != nil {
		return err
	}
	topics := []common.Hash{common.HexToHash(topic0)}

	chainID, err := r.source.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("get chain id: %w", err)
	}

	from := r.cfg.FromBlock
	if r.checkpoint != nil {
		last, ok, err := r.checkpoint.Load(ctx)
		if err != nil {
			return err
		}
		if ok && last >= from {
			from = last + 1
			r.logger.Info("resume from checkpoint", zap.Uint64("last_processed", last), zap.Uint64("from", from))
		}
	}

	follow := r.cfg.ToBlock == 0 && r.cfg.PollInterval > 0
	for {
		to := r.cfg.ToBlock
		if to == 0 {
			latest, err := r.latestBlockWithRetry(ctx)
			if err != nil {
				return fmt.Errorf("get latest block: %w", err)
			}
			to = latest
		}

		if from <= to {
			if err := r.processRange(ctx, chainID, topics, from, to); err != nil {
				return err
			}
			from = to + 1
		} else {
			r.logger.Debug("nothing to sync", zap.Uint64("from", from), zap.Uint64("to", to))
		}

		if !follow {
			return nil
		}

		timer := time.NewTimer(r.cfg.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *Runner) processRange(ctx context.Context, chainID uint64, topics []common.Hash, from, to uint64) error {
	ranges, err := SplitRange(from, to, r.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, blockRange := range ranges {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		r.logger.Info("fetch logs", zap.Uint64("from", blockRange.From), zap.Uint64("to", blockRange.To))

		logs, err := r.filterLogsWithRetry(ctx, topics, blockRange.From, blockRange.To)
		if err != nil {
			return fmt.Errorf("filter logs: %w", err)
		}

		events := make([]trigger.Event, 0, len(logs))
		for _, log := range logs {
			if log.Removed {
				continue
			}
			record := buildLogRecord(chainID, log)
			if r.isDuplicate(record) {
				continue
			}
			events = append(events, trigger.Event{Kind: r.cfg.Kind, Log: record})
		}

		records, err := r.invokeAll(ctx, events)
		if err != nil {
			return err
		}

		if err := r.storage.PutInvocationBatch(ctx, records); err != nil {
			return fmt.Errorf("store invocations: %w", err)
		}

		if r.checkpoint != nil {
			if err := r.checkpoint.Save(ctx, blockRange.To); err != nil {
				return err
			}
		}
		if r.progress != nil {
			r.progress.SetLastProcessedBlock(blockRange.To)
		}

		failed := 0
		for _, record := range records {
			if !record.Succeeded() {
				failed++
			}
		}
		r.logger.Info("batch complete",
			zap.Int("invocations", len(records)),
			zap.Int("failed", failed),
			zap.Uint64("from", blockRange.From),
			zap.Uint64("to", blockRange.To),
		)
	}

	return nil
}

// invokeAll runs the component for every event, bounded by Concurrency.
// Records keep the order of events. Component failures are recorded, not returned.
func (r *Runner) invokeAll(ctx context.Context, events []trigger.Event) ([]model.InvocationRecord, error) {
	records := make([]model.InvocationRecord, len(events))
	if len(events) == 0 {
		return records, nil
	}

	limit := r.cfg.Concurrency
	if limit <= 0 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, ev := range events {
		i, ev := i, ev
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, records[i] = r.invoker.Invoke(gctx, r.component, ev)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Runner) filterLogsWithRetry(ctx context.Context, topics []common.Hash, fromBlock, toBlock uint64) ([]types.Log, error) {
	var logs []types.Log
	err := retry.Do(ctx, r.retryPolicy(), func(ctx context.Context) error {
		var err error
		logs, err = r.source.FilterLogs(ctx, fromBlock, toBlock, r.cfg.Addresses, topics)
		if err != nil {
			r.logger.Warn("filter logs failed", zap.Error(err), zap.Uint64("from", fromBlock), zap.Uint64("to", toBlock))
		}
		return err
	})
	return logs, err
}

func (r *Runner) latestBlockWithRetry(ctx context.Context) (uint64, error) {
	var latest uint64
	err := retry.Do(ctx, r.retryPolicy(), func(ctx context.Context) error {
		var err error
		latest, err = r.source.LatestBlockNumber(ctx)
		if err != nil {
			r.logger.Warn("latest block fetch failed", zap.Error(err))
		}
		return err
	})
	return latest, err
}

func (r *Runner) retryPolicy() retry.Policy {
	return retry.Policy{MaxRetries: r.cfg.MaxRetries, Backoff: r.cfg.RetryBackoff}
}

func (r *Runner) isDuplicate(record model.LogRecord) bool {
	id := record.Key()
	if _, ok := r.seen[id]; ok {
		return true
	}
	r.seen[id] = struct{}{}
	return false
}
