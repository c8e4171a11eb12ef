package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"StockPulse/internal/model"
)

const dateLayout = "2006-01-02"

// UpsertDailyBar stores one daily bar, replacing any bar for the same date.
func (s *Store) UpsertDailyBar(ctx context.Context, companyID int64, bar model.OHLCV) error {
	_, err := s.Exec(ctx, `INSERT INTO stock_prices
		(company_id, date, open_price, high_price, low_price, close_price, volume, created_at)
		VALUES (?,?,?,?,?,?,?,?)
		ON CONFLICT (company_id, date) DO UPDATE SET
			open_price = excluded.open_price,
			high_price = excluded.high_price,
			low_price = excluded.low_price,
			close_price = excluded.close_price,
			volume = excluded.volume`,
		companyID, bar.Time.UTC().Format(dateLayout),
		bar.Open, bar.High, bar.Low, bar.Close, bar.Volume, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert bar %d/%s: %w", companyID, bar.Time.Format(dateLayout), err)
	}
	return nil
}

// Bars returns the most recent days bars of a symbol, oldest first.
func (s *Store) Bars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	rows, err := s.query(ctx, `SELECT p.date,
			COALESCE(p.open_price, 0), COALESCE(p.high_price, 0), COALESCE(p.low_price, 0),
			COALESCE(p.close_price, 0), COALESCE(p.volume, 0)
		FROM stock_prices p JOIN companies c ON c.id = p.company_id
		WHERE c.symbol = ?
		ORDER BY p.date DESC LIMIT ?`,
		strings.ToUpper(symbol), days)
	if err != nil {
		return nil, fmt.Errorf("query bars %s: %w", symbol, err)
	}
	defer rows.Close()

	var bars []model.OHLCV
	for rows.Next() {
		var date string
		var b model.OHLCV
		if err := rows.Scan(&date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		t, err := time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parse bar date %q: %w", date, err)
		}
		b.Time = t
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	reverse(bars)
	return bars, nil
}

// History returns up to limit of the most recent closing prices of a symbol,
// oldest first. Missing closes are skipped.
func (s *Store) History(ctx context.Context, symbol string, limit int) ([]float64, error) {
	rows, err := s.query(ctx, `SELECT p.close_price
		FROM stock_prices p JOIN companies c ON c.id = p.company_id
		WHERE c.symbol = ? AND p.close_price IS NOT NULL
		ORDER BY p.date DESC LIMIT ?`,
		strings.ToUpper(symbol), limit)
	if err != nil {
		return nil, fmt.Errorf("query history %s: %w", symbol, err)
	}
	defer rows.Close()

	closes := make([]float64, 0)
	for rows.Next() {
		var c float64
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan close: %w", err)
		}
		closes = append(closes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	reverse(closes)
	return closes, nil
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
