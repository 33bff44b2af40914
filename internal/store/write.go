package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"sfkit/internal/aggregate"
)

// WriteBatch stores one fit engine output: the per-canonical-bin
// measurements of one systematic category for one analysis. The values
// slice is indexed by canonical bin. The whole batch lands in a single
// transaction under a fresh UUIDv7 batch id, and re-ingesting a category
// replaces its rows (upsert on the primary key).
func (s *Store) WriteBatch(ctx context.Context, analysis string, category aggregate.Category, values []aggregate.Measurement) (string, error) {
	if !aggregate.ValidCategory(category) {
		return "", fmt.Errorf("write batch: unknown category %q", category)
	}

	batchID, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("write batch: generate batch id: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("write batch: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO measurements
		(analysis, bin, category, eff, unc, batch_id)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(analysis, bin, category) DO UPDATE SET
			eff = excluded.eff,
			unc = excluded.unc,
			batch_id = excluded.batch_id
	`)
	if err != nil {
		return "", fmt.Errorf("write batch: prepare: %w", err)
	}
	defer stmt.Close()

	for bin, m := range values {
		if _, err := stmt.ExecContext(ctx, analysis, bin, string(category), m.Eff, m.Unc, batchID.String()); err != nil {
			return "", fmt.Errorf("write batch: bin %d: %w", bin, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("write batch: commit: %w", err)
	}

	return batchID.String(), nil
}
