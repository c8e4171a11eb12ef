package recorder

import (
	"context"

	"StockPulse/internal/model"
)

// NoopRecorder is used when run history is disabled.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordBatch(_ context.Context, _ *model.Batch) error { return nil }
func (n *NoopRecorder) RecentRuns(_ context.Context, _ int) ([]RunSummary, error) {
	return []RunSummary{}, nil
}
func (n *NoopRecorder) Close() error { return nil }
