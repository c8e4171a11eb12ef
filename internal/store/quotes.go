package store

import (
	"context"
	"fmt"
	"time"

	"StockPulse/internal/batch"
	"StockPulse/internal/model"
)

// Mover list kinds.
const (
	MoversGainers = "gainers"
	MoversLosers  = "losers"
	MoversActive  = "active"
)

const quoteSelect = `SELECT c.symbol, c.name, COALESCE(c.sector, ''),
		COALESCE(q.current_price, 0), COALESCE(q.price_change, 0),
		COALESCE(q.percentage_change, 0), COALESCE(q.volume, 0), q.last_updated
	FROM current_prices q JOIN companies c ON c.id = q.company_id`

// UpsertQuote replaces the live quote of a company.
func (s *Store) UpsertQuote(ctx context.Context, companyID int64, q model.Quote) error {
	updated := q.LastUpdated
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err := s.Exec(ctx, `INSERT INTO current_prices
		(company_id, current_price, price_change, percentage_change, volume, last_updated)
		VALUES (?,?,?,?,?,?)
		ON CONFLICT (company_id) DO UPDATE SET
			current_price = excluded.current_price,
			price_change = excluded.price_change,
			percentage_change = excluded.percentage_change,
			volume = excluded.volume,
			last_updated = excluded.last_updated`,
		companyID, q.CurrentPrice, q.PriceChange, q.PercentageChange, q.Volume, updated.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert quote %d: %w", companyID, err)
	}
	return nil
}

// ListQuotes returns every live quote, biggest percentage gain first.
func (s *Store) ListQuotes(ctx context.Context) ([]model.Quote, error) {
	return s.scanQuotes(ctx, quoteSelect+` ORDER BY q.percentage_change DESC, c.symbol`)
}

// Movers returns the top gainers, losers or most active quotes.
func (s *Store) Movers(ctx context.Context, kind string, limit int) ([]model.Quote, error) {
	var q string
	switch kind {
	case MoversGainers:
		q = quoteSelect + ` WHERE q.percentage_change > 0 ORDER BY q.percentage_change DESC, c.symbol LIMIT ?`
	case MoversLosers:
		q = quoteSelect + ` WHERE q.percentage_change < 0 ORDER BY q.percentage_change ASC, c.symbol LIMIT ?`
	case MoversActive:
		q = quoteSelect + ` ORDER BY q.volume DESC, c.symbol LIMIT ?`
	default:
		return nil, fmt.Errorf("unknown movers kind %q", kind)
	}
	return s.scanQuotes(ctx, q, limit)
}

// Candidates returns the most traded symbols with their live price. It makes
// the store usable as a batch.Source.
func (s *Store) Candidates(ctx context.Context, limit int) ([]batch.Candidate, error) {
	quotes, err := s.Movers(ctx, MoversActive, limit)
	if err != nil {
		return nil, err
	}
	out := make([]batch.Candidate, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, batch.Candidate{Symbol: q.Symbol, Name: q.Name, CurrentPrice: q.CurrentPrice})
	}
	return out, nil
}

func (s *Store) scanQuotes(ctx context.Context, q string, args ...any) ([]model.Quote, error) {
	rows, err := s.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	var out []model.Quote
	for rows.Next() {
		var qt model.Quote
		var updated int64
		if err := rows.Scan(&qt.Symbol, &qt.Name, &qt.Sector, &qt.CurrentPrice, &qt.PriceChange,
			&qt.PercentageChange, &qt.Volume, &updated); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		qt.LastUpdated = time.Unix(updated, 0).UTC()
		out = append(out, qt)
	}
	return out, rows.Err()
}
