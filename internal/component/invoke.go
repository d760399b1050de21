package component

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"triggerOracle/internal/model"
	"triggerOracle/internal/trigger"
)

// Observer receives the outcome of every invocation.
type Observer interface {
	ObserveInvocation(component string, err error, elapsed time.Duration)
}

// Invoker runs components and records each invocation.
type Invoker struct {
	logger   *zap.Logger
	observer Observer
	now      func() time.Time
}

func NewInvoker(logger *zap.Logger, observer Observer) *Invoker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Invoker{logger: logger, observer: observer, now: time.Now}
}

// Invoke runs c for ev. The returned output is nil whenever the record carries an error.
func (i *Invoker) Invoke(ctx context.Context, c Component, ev trigger.Event) ([]byte, model.InvocationRecord) {
	record := model.InvocationRecord{
		RunID:       uuid.NewString(),
		Component:   c.Name(),
		ChainID:     ev.Log.ChainID,
		BlockNumber: ev.Log.BlockNumber,
		TxHash:      ev.Log.TxHash,
		LogIndex:    ev.Log.LogIndex,
		Address:     ev.Log.Address,
	}
	if id, ok := TriggerID(ev); ok {
		record.TriggerID = &id
	}

	start := i.now()
	output, err := c.Run(ctx, ev)
	elapsed := i.now().Sub(start)

	record.DurationMs = elapsed.Milliseconds()
	record.ProcessedAt = i.now().UTC().Format(time.RFC3339Nano)

	fields := []zap.Field{
		zap.String("run_id", record.RunID),
		zap.String("component", record.Component),
		zap.String("tx_hash", record.TxHash),
		zap.Uint64("log_index", record.LogIndex),
		zap.Duration("elapsed", elapsed),
	}
	if record.TriggerID != nil {
		fields = append(fields, zap.Uint64("trigger_id", *record.TriggerID))
	}

	if err != nil {
		output = nil
		record.Error = err.Error()
		record.ErrorKind = model.ErrorKind(err)
		i.logger.Warn("invocation failed", append(fields, zap.String("error_kind", record.ErrorKind), zap.Error(err))...)
	} else {
		record.Output = hexutil.Encode(output)
		i.logger.Info("invocation complete", append(fields, zap.Int("output_bytes", len(output)))...)
	}

	if i.observer != nil {
		i.observer.ObserveInvocation(record.Component, err, elapsed)
	}
	return output, record
}
