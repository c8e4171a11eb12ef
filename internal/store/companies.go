package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"StockPulse/internal/model"
)

const companyColumns = `id, symbol, name, COALESCE(sector, ''), COALESCE(industry, ''), COALESCE(exchange, ''), is_active`

// UpsertCompany inserts or updates a company keyed by symbol and returns its id.
func (s *Store) UpsertCompany(ctx context.Context, c model.Company) (int64, error) {
	now := time.Now().Unix()
	var id int64
	err := s.queryRow(ctx, `INSERT INTO companies
		(symbol, name, sector, industry, exchange, is_active, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?)
		ON CONFLICT (symbol) DO UPDATE SET
			name = excluded.name,
			sector = excluded.sector,
			industry = excluded.industry,
			exchange = excluded.exchange,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at
		RETURNING id`,
		strings.ToUpper(c.Symbol), c.Name, c.Sector, c.Industry, c.Exchange, boolToInt(c.Active), now, now,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert company %s: %w", c.Symbol, err)
	}
	return id, nil
}

// ListCompanies returns companies ordered by symbol.
func (s *Store) ListCompanies(ctx context.Context, activeOnly bool) ([]model.Company, error) {
	q := `SELECT ` + companyColumns + ` FROM companies`
	if activeOnly {
		q += ` WHERE is_active = 1`
	}
	q += ` ORDER BY symbol`
	return s.scanCompanies(ctx, q)
}

// SearchCompanies matches active companies by symbol prefix or name substring.
func (s *Store) SearchCompanies(ctx context.Context, term string, limit int) ([]model.Company, error) {
	term = strings.ToUpper(strings.TrimSpace(term))
	term = strings.NewReplacer("%", "", "_", "").Replace(term)
	if term == "" {
		return s.ListCompanies(ctx, true)
	}
	return s.scanCompanies(ctx, `SELECT `+companyColumns+` FROM companies
		WHERE is_active = 1 AND (UPPER(symbol) LIKE ? OR UPPER(name) LIKE ?)
		ORDER BY symbol LIMIT ?`,
		term+"%", "%"+term+"%", limit)
}

// CompanyBySymbol looks a company up by its ticker.
func (s *Store) CompanyBySymbol(ctx context.Context, symbol string) (model.Company, error) {
	var c model.Company
	var active int
	err := s.queryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE symbol = ?`,
		strings.ToUpper(symbol)).
		Scan(&c.ID, &c.Symbol, &c.Name, &c.Sector, &c.Industry, &c.Exchange, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Company{}, fmt.Errorf("company %s: %w", symbol, ErrNotFound)
	}
	if err != nil {
		return model.Company{}, fmt.Errorf("company %s: %w", symbol, err)
	}
	c.Active = active != 0
	return c, nil
}

func (s *Store) scanCompanies(ctx context.Context, q string, args ...any) ([]model.Company, error) {
	rows, err := s.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()

	var out []model.Company
	for rows.Next() {
		var c model.Company
		var active int
		if err := rows.Scan(&c.ID, &c.Symbol, &c.Name, &c.Sector, &c.Industry, &c.Exchange, &active); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		c.Active = active != 0
		out = append(out, c)
	}
	return out, rows.Err()
}
