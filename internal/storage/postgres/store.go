package postgres

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"triggerOracle/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS invocations (
	component     TEXT        NOT NULL,
	chain_id      BIGINT      NOT NULL,
	tx_hash       TEXT        NOT NULL,
	log_index     BIGINT      NOT NULL,
	run_id        TEXT        NOT NULL,
	block_number  BIGINT      NOT NULL,
	address       TEXT        NOT NULL,
	trigger_id    NUMERIC(20),
	output        TEXT,
	error         TEXT,
	error_kind    TEXT,
	duration_ms   BIGINT      NOT NULL,
	processed_at  TIMESTAMPTZ NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (component, chain_id, tx_hash, log_index)
);
CREATE TABLE IF NOT EXISTS watcher_state (
	name                  TEXT PRIMARY KEY,
	last_processed_block  BIGINT      NOT NULL,
	updated_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Store provides Postgres persistence for invocations and watcher progress.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Migrate creates the tables used by the store.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// PutInvocationBatch inserts or updates invocation records.
// A trigger log re-processed by the same component replaces the earlier outcome.
func (s *Store) PutInvocationBatch(ctx context.Context, records []model.InvocationRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, r := range records {
		processedAt, err := time.Parse(time.RFC3339Nano, r.ProcessedAt)
		if err != nil {
			return fmt.Errorf("parse processed_at %q: %w", r.ProcessedAt, err)
		}
		var triggerID pgtype.Numeric
		if r.TriggerID != nil {
			triggerID = pgtype.Numeric{Int: new(big.Int).SetUint64(*r.TriggerID), Valid: true}
		}
		batch.Queue(`
			INSERT INTO invocations (
				component, chain_id, tx_hash, log_index, run_id, block_number, address,
				trigger_id, output, error, error_kind, duration_ms, processed_at, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,now(),now())
			ON CONFLICT (component, chain_id, tx_hash, log_index)
			DO UPDATE SET
				run_id = EXCLUDED.run_id,
				block_number = EXCLUDED.block_number,
				address = EXCLUDED.address,
				trigger_id = EXCLUDED.trigger_id,
				output = EXCLUDED.output,
				error = EXCLUDED.error,
				error_kind = EXCLUDED.error_kind,
				duration_ms = EXCLUDED.duration_ms,
				processed_at = EXCLUDED.processed_at,
				updated_at = now()
		`,
			r.Component,
			int64(r.ChainID),
			r.TxHash,
			int64(r.LogIndex),
			r.RunID,
			int64(r.BlockNumber),
			r.Address,
			triggerID,
			nullable(r.Output),
			nullable(r.Error),
			nullable(r.ErrorKind),
			r.DurationMs,
			processedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range records {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadState returns last_processed_block for a name.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var block int64
	row := s.pool.QueryRow(ctx, `SELECT last_processed_block FROM watcher_state WHERE name=$1`, name)
	if err := row.Scan(&block); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return uint64(block), true, nil
}

// SaveState upserts last_processed_block for a name.
func (s *Store) SaveState(ctx context.Context, name string, block uint64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO watcher_state (name, last_processed_block, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_processed_block = EXCLUDED.last_processed_block, updated_at = now()
	`, name, int64(block))
	return err
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
