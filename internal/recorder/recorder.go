// Package recorder keeps a history of prediction runs for later analysis.
package recorder

import (
	"context"
	"time"

	"StockPulse/internal/model"
)

// RunSummary is one recorded prediction run.
type RunSummary struct {
	RunID      string    `json:"runId"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Candidates int       `json:"candidates"`
	Succeeded  int       `json:"succeeded"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordBatch(ctx context.Context, b *model.Batch) error
	RecentRuns(ctx context.Context, limit int) ([]RunSummary, error)
	Close() error
}
