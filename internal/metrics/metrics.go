package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"StockPulse/internal/model"
)

// Metrics holds the Prometheus collectors of the prediction pipeline.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	BatchRuns     prometheus.Counter
	BatchFailures prometheus.Counter
	BatchItems    *prometheus.CounterVec // labels: outcome
	BatchDuration prometheus.Histogram
	LastBatchSize prometheus.Gauge

	QuoteRefreshes prometheus.Counter
	QuoteErrors    prometheus.Counter
	FetchErrors    *prometheus.CounterVec // labels: source
}

// NewMetrics creates all collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		BatchRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockpulse_batch_runs_total",
			Help: "Completed prediction batch runs",
		}),
		BatchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockpulse_batch_failures_total",
			Help: "Prediction runs aborted because candidates could not be loaded",
		}),
		BatchItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockpulse_batch_items_total",
			Help: "Per-symbol batch results by outcome",
		}, []string{"outcome"}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stockpulse_batch_duration_seconds",
			Help:    "Wall time of one prediction batch run",
			Buckets: prometheus.DefBuckets,
		}),
		LastBatchSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stockpulse_last_batch_predictions",
			Help: "Predictions produced by the most recent run",
		}),
		QuoteRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockpulse_quote_refreshes_total",
			Help: "Live quotes written to the store",
		}),
		QuoteErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockpulse_quote_errors_total",
			Help: "Live quote refreshes that failed",
		}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockpulse_fetch_errors_total",
			Help: "Market data fetch failures by source",
		}, []string{"source"}),
	}

	reg.MustRegister(
		m.BatchRuns, m.BatchFailures, m.BatchItems, m.BatchDuration, m.LastBatchSize,
		m.QuoteRefreshes, m.QuoteErrors, m.FetchErrors,
	)
	return m
}

// ObserveBatch records a finished run.
func (m *Metrics) ObserveBatch(b *model.Batch) {
	if m == nil || b == nil {
		return
	}
	m.BatchRuns.Inc()
	m.BatchDuration.Observe(b.FinishedAt.Sub(b.StartedAt).Seconds())
	m.LastBatchSize.Set(float64(len(b.Predictions)))
	for _, it := range b.Items {
		m.BatchItems.WithLabelValues(string(it.Outcome)).Inc()
	}
}

// BatchFailed records a run that could not start.
func (m *Metrics) BatchFailed() {
	if m == nil {
		return
	}
	m.BatchFailures.Inc()
}

// QuoteRefreshed records one quote update attempt.
func (m *Metrics) QuoteRefreshed(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.QuoteRefreshes.Inc()
	} else {
		m.QuoteErrors.Inc()
	}
}

// FetchFailed records a failed call to a market data source.
func (m *Metrics) FetchFailed(source string) {
	if m == nil {
		return
	}
	m.FetchErrors.WithLabelValues(source).Inc()
}
