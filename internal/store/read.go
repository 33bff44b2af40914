package store

import (
	"context"
	"fmt"

	"sfkit/internal/aggregate"
)

// ReadMeasurements returns every stored measurement of one analysis,
// keyed by canonical bin then category. Rows are read in (bin, category)
// order so repeated reads of the same store are deterministic.
func (s *Store) ReadMeasurements(ctx context.Context, analysis string) (map[int]map[aggregate.Category]aggregate.Measurement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT bin, category, eff, unc
		FROM measurements
		WHERE analysis = ?
		ORDER BY bin, category
	`, analysis)
	if err != nil {
		return nil, fmt.Errorf("read measurements: %w", err)
	}
	defer rows.Close()

	out := make(map[int]map[aggregate.Category]aggregate.Measurement)
	for rows.Next() {
		var (
			bin      int
			category string
			m        aggregate.Measurement
		)
		if err := rows.Scan(&bin, &category, &m.Eff, &m.Unc); err != nil {
			return nil, fmt.Errorf("read measurements: scan: %w", err)
		}
		if out[bin] == nil {
			out[bin] = make(map[aggregate.Category]aggregate.Measurement, len(aggregate.Categories))
		}
		out[bin][aggregate.Category(category)] = m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read measurements: %w", err)
	}

	return out, nil
}

// CountCategories returns how many distinct categories have been ingested
// for one analysis. Used by status reporting before an export.
func (s *Store) CountCategories(ctx context.Context, analysis string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT category) FROM measurements WHERE analysis = ?
	`, analysis).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}
