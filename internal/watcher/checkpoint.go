package watcher

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Checkpointer persists the last fully processed block.
type Checkpointer interface {
	Load(ctx context.Context) (uint64, bool, error)
	Save(ctx context.Context, lastProcessed uint64) error
}

// Checkpoint tracks the last processed block.
type Checkpoint struct {
	LastProcessedBlock uint64 `json:"last_processed_block"`
	UpdatedAt          string `json:"updated_at"`
}

// FileCheckpoint persists checkpoints to disk.
type FileCheckpoint struct {
	path    string
	enabled bool
}

func NewFileCheckpoint(path string, enabled bool) *FileCheckpoint {
	return &FileCheckpoint{path: path, enabled: enabled}
}

func (c *FileCheckpoint) Load(_ context.Context) (uint64, bool, error) {
	if !c.enabled {
		return 0, false, nil
	}

	stat, err := os.Stat(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("stat checkpoint: %w", err)
	}
	if stat.IsDir() {
		return 0, false, fmt.Errorf("checkpoint path is a directory")
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return 0, false, fmt.Errorf("read checkpoint: %w", err)
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return 0, false, fmt.Errorf("parse checkpoint: %w", err)
	}

	return cp.LastProcessedBlock, true, nil
}

func (c *FileCheckpoint) Save(_ context.Context, lastProcessed uint64) error {
	if !c.enabled {
		return nil
	}

	dir := filepath.Dir(c.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create checkpoint dir: %w", err)
		}
	}

	cp := Checkpoint{
		LastProcessedBlock: lastProcessed,
		UpdatedAt:          time.Now().UTC().Format(time.RFC3339Nano),
	}
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint tmp: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		return fmt.Errorf("rename checkpoint: %w", err)
	}

	return nil
}

// StateStore is a named block-progress table, such as postgres.Store.
type StateStore interface {
	LoadState(ctx context.Context, name string) (uint64, bool, error)
	SaveState(ctx context.Context, name string, block uint64) error
}

// StoreCheckpoint keeps the checkpoint in a StateStore row.
type StoreCheckpoint struct {
	store StateStore
	name  string
}

func NewStoreCheckpoint(store StateStore, name string) *StoreCheckpoint {
	return &StoreCheckpoint{store: store, name: name}
}

func (c *StoreCheckpoint) Load(ctx context.Context) (uint64, bool, error) {
	block, ok, err := c.store.LoadState(ctx, c.name)
	if err != nil {
		return 0, false, fmt.Errorf("load state %s: %w", c.name, err)
	}
	return block, ok, nil
}

func (c *StoreCheckpoint) Save(ctx context.Context, lastProcessed uint64) error {
	if err := c.store.SaveState(ctx, c.name, lastProcessed); err != nil {
		return fmt.Errorf("save state %s: %w", c.name, err)
	}
	return nil
}
