package recorder

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"StockPulse/internal/model"
	"StockPulse/internal/store"
)

// SQLRecorder writes runs into the shared market data database.
type SQLRecorder struct {
	st *store.Store
	mu sync.Mutex
}

// NewSQLRecorder creates the run tables if needed. The store stays owned by
// the caller.
func NewSQLRecorder(st *store.Store) (*SQLRecorder, error) {
	r := &SQLRecorder{st: st}
	if err := r.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info().Str("driver", st.Driver()).Msg("prediction recorder ready")
	return r, nil
}

func (r *SQLRecorder) migrate() error {
	id := r.st.IDColumn()
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS prediction_runs (
			id          ` + id + `,
			run_id      TEXT NOT NULL UNIQUE,
			started_at  BIGINT NOT NULL,
			finished_at BIGINT NOT NULL,
			candidates  INTEGER NOT NULL,
			succeeded   INTEGER NOT NULL,
			skipped     INTEGER NOT NULL,
			failed      INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_prediction_runs_started ON prediction_runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS predictions (
			id              ` + id + `,
			run_id          TEXT NOT NULL,
			position        INTEGER NOT NULL,
			symbol          TEXT NOT NULL,
			outcome         TEXT NOT NULL,
			reason          TEXT,
			current_price   DOUBLE PRECISION,
			predicted_price DOUBLE PRECISION,
			confidence      INTEGER,
			trend           TEXT,
			factors         TEXT,
			rsi             DOUBLE PRECISION,
			macd            DOUBLE PRECISION,
			sma20           DOUBLE PRECISION,
			sma50           DOUBLE PRECISION
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_run ON predictions(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_symbol ON predictions(symbol)`,
	}

	for _, s := range stmts {
		if _, err := r.st.DB().Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", strings.TrimSpace(s[:40]), err)
		}
	}
	return nil
}

// RecordBatch stores the run and every per-symbol item in one transaction.
func (r *SQLRecorder) RecordBatch(ctx context.Context, b *model.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.st.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, r.st.Rebind(`INSERT INTO prediction_runs
		(run_id, started_at, finished_at, candidates, succeeded, skipped, failed)
		VALUES (?,?,?,?,?,?,?)`),
		b.RunID, b.StartedAt.Unix(), b.FinishedAt.Unix(), len(b.Items),
		b.Count(model.OutcomeSuccess), b.Count(model.OutcomeSkipped), b.Count(model.OutcomeError),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", b.RunID, err)
	}

	stmt, err := tx.PrepareContext(ctx, r.st.Rebind(`INSERT INTO predictions
		(run_id, position, symbol, outcome, reason, current_price, predicted_price,
		 confidence, trend, factors, rsi, macd, sma20, sma50)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`))
	if err != nil {
		return fmt.Errorf("prepare prediction insert: %w", err)
	}
	defer stmt.Close()

	for i, it := range b.Items {
		var (
			current, predicted, rsi, macd, sma20, sma50 float64
			confidence                                  int
			trend, factors                              string
		)
		if p := it.Prediction; p != nil {
			current, predicted, confidence = p.CurrentPrice, p.PredictedPrice, p.Confidence
			trend, factors = string(p.Trend), strings.Join(p.Factors, "; ")
			rsi, macd = p.Technicals.RSI, p.Technicals.MACD
			sma20, sma50 = p.Technicals.SMA20, p.Technicals.SMA50
		}
		if _, err := stmt.ExecContext(ctx, b.RunID, i, it.Symbol, string(it.Outcome), it.Reason,
			current, predicted, confidence, trend, factors, rsi, macd, sma20, sma50); err != nil {
			return fmt.Errorf("insert prediction %s: %w", it.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", b.RunID, err)
	}
	return nil
}

// RecentRuns returns the latest runs, newest first.
func (r *SQLRecorder) RecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	rows, err := r.st.DB().QueryContext(ctx, r.st.Rebind(`SELECT run_id, started_at, finished_at,
			candidates, succeeded, skipped, failed
		FROM prediction_runs ORDER BY started_at DESC, id DESC LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]RunSummary, 0)
	for rows.Next() {
		var s RunSummary
		var started, finished int64
		if err := rows.Scan(&s.RunID, &started, &finished,
			&s.Candidates, &s.Succeeded, &s.Skipped, &s.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		s.StartedAt = time.Unix(started, 0).UTC()
		s.FinishedAt = time.Unix(finished, 0).UTC()
		runs = append(runs, s)
	}
	return runs, rows.Err()
}

// Close is a no-op; the store is closed by its owner.
func (r *SQLRecorder) Close() error {
	log.Info().Msg("closing prediction recorder")
	return nil
}
