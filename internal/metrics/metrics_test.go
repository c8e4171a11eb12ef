package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"StockPulse/internal/model"
)

func TestObserveBatch(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	start := time.Now()
	m.ObserveBatch(&model.Batch{
		StartedAt:   start,
		FinishedAt:  start.Add(time.Second),
		Predictions: []model.Prediction{{Symbol: "A"}},
		Items: []model.ItemResult{
			{Symbol: "A", Outcome: model.OutcomeSuccess},
			{Symbol: "B", Outcome: model.OutcomeSkipped},
			{Symbol: "C", Outcome: model.OutcomeSkipped},
		},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.BatchRuns))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LastBatchSize))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BatchItems.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.BatchItems.WithLabelValues("skipped")))
}

func TestCountersAndNilSafety(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.QuoteRefreshed(true)
	m.QuoteRefreshed(false)
	m.FetchFailed("yahoo")
	m.BatchFailed()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.QuoteRefreshes))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QuoteErrors))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchErrors.WithLabelValues("yahoo")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BatchFailures))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() {
		nilMetrics.ObserveBatch(&model.Batch{})
		nilMetrics.QuoteRefreshed(true)
		nilMetrics.FetchFailed("x")
		nilMetrics.BatchFailed()
	})
}
