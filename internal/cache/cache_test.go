package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/model"
)

func batchOf(runID string, symbols ...string) *model.Batch {
	now := time.Date(2024, 3, 1, 9, 15, 0, 0, time.UTC)
	b := &model.Batch{RunID: runID, StartedAt: now, FinishedAt: now.Add(time.Second)}
	for _, s := range symbols {
		p := model.Prediction{Symbol: s, CurrentPrice: 100, PredictedPrice: 101, Confidence: 70,
			Trend: model.TrendNeutral, Timeframe: model.Timeframe}
		b.Predictions = append(b.Predictions, p)
		b.Items = append(b.Items, model.ItemResult{Symbol: s, Outcome: model.OutcomeSuccess, Prediction: &p})
	}
	return b
}

func TestMemoryCache_MissBeforeFirstStore(t *testing.T) {
	c := NewMemoryCache()
	_, err := c.Latest(context.Background())
	assert.True(t, errors.Is(err, ErrMiss))
}

func TestMemoryCache_LatestRunWins(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Store(ctx, batchOf("run-1", "TCS", "INFY")))
	require.NoError(t, c.Store(ctx, batchOf("run-2", "RELIANCE")))

	got, err := c.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-2", got.RunID)
	require.Len(t, got.Predictions, 1)
	assert.Equal(t, "RELIANCE", got.Predictions[0].Symbol)
	assert.True(t, got.FinishedAt.Equal(time.Date(2024, 3, 1, 9, 15, 1, 0, time.UTC)))
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()
	orig := batchOf("run-1", "TCS")
	require.NoError(t, c.Store(ctx, orig))

	orig.Predictions[0].Symbol = "CHANGED"
	got, err := c.Latest(ctx)
	require.NoError(t, err)
	got.Predictions[0].Confidence = 0

	again, err := c.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "TCS", again.Predictions[0].Symbol)
	assert.Equal(t, 70, again.Predictions[0].Confidence)
}

func TestMemoryCache_RejectsNil(t *testing.T) {
	assert.Error(t, NewMemoryCache().Store(context.Background(), nil))
}
