// Package store persists companies, daily bars, live quotes and market
// indices in SQLite or Postgres.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Store wraps a database handle and the SQL dialect it speaks.
type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to the database and runs migrations.
func Open(driver, dsn string) (*Store, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		// WAL lets the API read while the scheduler writes.
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set WAL mode: %w", err)
		}
		if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set busy timeout: %w", err)
		}
	}

	s := &Store{db: db, driver: driver}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("driver", driver).Msg("store opened")
	return s, nil
}

// DB exposes the underlying handle for packages sharing the database.
func (s *Store) DB() *sql.DB { return s.db }

// Driver reports the SQL dialect in use.
func (s *Store) Driver() string { return s.driver }

// Close closes the database.
func (s *Store) Close() error {
	log.Info().Msg("closing store")
	return s.db.Close()
}

// Rebind rewrites ? placeholders to $n for Postgres.
func (s *Store) Rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IDColumn returns the auto-increment primary key definition of the dialect.
func (s *Store) IDColumn() string {
	if s.driver == DriverPostgres {
		return "BIGSERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

// Exec runs a statement after rebinding its placeholders.
func (s *Store) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.Rebind(query), args...)
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.Rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.Rebind(query), args...)
}

func (s *Store) migrate() error {
	id := s.IDColumn()
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS companies (
			id         ` + id + `,
			symbol     TEXT NOT NULL UNIQUE,
			name       TEXT NOT NULL,
			sector     TEXT,
			industry   TEXT,
			exchange   TEXT,
			is_active  INTEGER NOT NULL DEFAULT 1,
			created_at BIGINT NOT NULL,
			updated_at BIGINT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS stock_prices (
			id          ` + id + `,
			company_id  BIGINT NOT NULL REFERENCES companies(id),
			date        TEXT NOT NULL,
			open_price  DOUBLE PRECISION,
			high_price  DOUBLE PRECISION,
			low_price   DOUBLE PRECISION,
			close_price DOUBLE PRECISION,
			volume      DOUBLE PRECISION,
			created_at  BIGINT NOT NULL,
			UNIQUE (company_id, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stock_prices_company_date ON stock_prices(company_id, date)`,

		`CREATE TABLE IF NOT EXISTS current_prices (
			id                ` + id + `,
			company_id        BIGINT NOT NULL UNIQUE REFERENCES companies(id),
			current_price     DOUBLE PRECISION,
			price_change      DOUBLE PRECISION,
			percentage_change DOUBLE PRECISION,
			volume            BIGINT,
			last_updated      BIGINT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS market_indices (
			id                ` + id + `,
			name              TEXT NOT NULL UNIQUE,
			current_value     DOUBLE PRECISION,
			change_value      DOUBLE PRECISION,
			change_percentage DOUBLE PRECISION,
			last_updated      BIGINT NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(stmt string) string {
	if i := strings.IndexByte(stmt, '\n'); i > 0 {
		return strings.TrimSpace(stmt[:i])
	}
	return stmt
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
