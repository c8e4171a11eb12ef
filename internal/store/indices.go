package store

import (
	"context"
	"fmt"
	"time"

	"StockPulse/internal/model"
)

// UpsertIndex stores the latest value of a market index.
func (s *Store) UpsertIndex(ctx context.Context, idx model.MarketIndex) error {
	updated := idx.LastUpdated
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err := s.Exec(ctx, `INSERT INTO market_indices
		(name, current_value, change_value, change_percentage, last_updated)
		VALUES (?,?,?,?,?)
		ON CONFLICT (name) DO UPDATE SET
			current_value = excluded.current_value,
			change_value = excluded.change_value,
			change_percentage = excluded.change_percentage,
			last_updated = excluded.last_updated`,
		idx.Name, idx.CurrentValue, idx.ChangeValue, idx.ChangePercentage, updated.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert index %s: %w", idx.Name, err)
	}
	return nil
}

// ListIndices returns all market indices ordered by name.
func (s *Store) ListIndices(ctx context.Context) ([]model.MarketIndex, error) {
	rows, err := s.query(ctx, `SELECT name, COALESCE(current_value, 0), COALESCE(change_value, 0),
			COALESCE(change_percentage, 0), last_updated
		FROM market_indices ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query indices: %w", err)
	}
	defer rows.Close()

	var out []model.MarketIndex
	for rows.Next() {
		var idx model.MarketIndex
		var updated int64
		if err := rows.Scan(&idx.Name, &idx.CurrentValue, &idx.ChangeValue, &idx.ChangePercentage, &updated); err != nil {
			return nil, fmt.Errorf("scan index: %w", err)
		}
		idx.LastUpdated = time.Unix(updated, 0).UTC()
		out = append(out, idx)
	}
	return out, rows.Err()
}
