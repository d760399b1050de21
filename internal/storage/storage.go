package storage

import (
	"context"

	"triggerOracle/internal/model"
)

// Storage defines a sink for invocation records.
type Storage interface {
	PutInvocationBatch(ctx context.Context, records []model.InvocationRecord) error
}
