// Package batch runs the prediction engine over a candidate set of symbols,
// isolating per-symbol failures.
package batch

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"StockPulse/internal/logging"
	"StockPulse/internal/metrics"
	"StockPulse/internal/model"
	"StockPulse/internal/strategy"
)

// MinDataPoints is the fewest prices (history plus live price) a symbol needs
// before it is handed to the engine.
const MinDataPoints = 5

const (
	DefaultCandidateLimit = 5
	DefaultHistoryDepth   = 50
	DefaultWorkers        = 4
)

// Candidate is a symbol submitted for prediction along with its live price
// (0 when unknown).
type Candidate struct {
	Symbol       string
	Name         string
	CurrentPrice float64
}

// Source supplies candidates and their closing price history.
type Source interface {
	Candidates(ctx context.Context, limit int) ([]Candidate, error)
	History(ctx context.Context, symbol string, limit int) ([]float64, error)
}

// Runner produces one prediction batch per Run call.
type Runner struct {
	Source         Source
	CandidateLimit int
	HistoryDepth   int
	Workers        int
	Metrics        *metrics.Metrics
	Logger         zerolog.Logger
}

// NewRunner creates a Runner with default limits.
func NewRunner(src Source, m *metrics.Metrics, logger zerolog.Logger) *Runner {
	return &Runner{
		Source:         src,
		CandidateLimit: DefaultCandidateLimit,
		HistoryDepth:   DefaultHistoryDepth,
		Workers:        DefaultWorkers,
		Metrics:        m,
		Logger:         logger,
	}
}

// Run loads the candidates and predicts each of them. Only a failure to load
// the candidate list is returned as an error; per-symbol problems are recorded
// in the batch items and the symbol is left out of Predictions.
func (r *Runner) Run(ctx context.Context) (*model.Batch, error) {
	runID := uuid.NewString()
	logger := logging.OrGlobal(r.Logger).With().Str("run_id", runID).Logger()
	started := time.Now()

	candidates, err := r.Source.Candidates(ctx, orDefault(r.CandidateLimit, DefaultCandidateLimit))
	if err != nil {
		r.Metrics.BatchFailed()
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	items := make([]model.ItemResult, len(candidates))
	sem := make(chan struct{}, orDefault(r.Workers, DefaultWorkers))
	var wg sync.WaitGroup

	for i, c := range candidates {
		wg.Add(1)
		go func(i int, c Candidate) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				items[i] = failed(c.Symbol, ctx.Err())
				return
			}
			defer func() { <-sem }()
			items[i] = r.predictOne(ctx, c)
		}(i, c)
	}
	wg.Wait()

	b := &model.Batch{
		RunID:       runID,
		StartedAt:   started,
		FinishedAt:  time.Now(),
		Predictions: make([]model.Prediction, 0, len(items)),
		Items:       items,
	}
	for _, it := range items {
		if it.Outcome == model.OutcomeSuccess {
			b.Predictions = append(b.Predictions, *it.Prediction)
			continue
		}
		logger.Warn().Str("symbol", it.Symbol).Str("outcome", string(it.Outcome)).
			Str("reason", it.Reason).Msg("symbol omitted from batch")
	}

	r.Metrics.ObserveBatch(b)
	logger.Info().
		Int("candidates", len(candidates)).
		Int("predictions", len(b.Predictions)).
		Int("skipped", b.Count(model.OutcomeSkipped)).
		Int("errors", b.Count(model.OutcomeError)).
		Dur("took", b.FinishedAt.Sub(started)).
		Msg("prediction batch finished")
	return b, nil
}

func (r *Runner) predictOne(ctx context.Context, c Candidate) (res model.ItemResult) {
	defer func() {
		if p := recover(); p != nil {
			res = model.ItemResult{Symbol: c.Symbol, Outcome: model.OutcomeError, Reason: fmt.Sprintf("panic: %v", p)}
		}
	}()

	if c.Symbol == "" {
		return model.ItemResult{Outcome: model.OutcomeSkipped, Reason: "missing symbol"}
	}
	if err := ctx.Err(); err != nil {
		return failed(c.Symbol, err)
	}

	history, err := r.Source.History(ctx, c.Symbol, orDefault(r.HistoryDepth, DefaultHistoryDepth))
	if err != nil {
		return failed(c.Symbol, fmt.Errorf("fetch history: %w", err))
	}
	history = usablePrices(history)

	// A non-finite live price is treated as missing.
	if !usable(c.CurrentPrice) {
		c.CurrentPrice = 0
	}
	points := len(history)
	if c.CurrentPrice > 0 {
		points++
	}
	if points < MinDataPoints {
		return model.ItemResult{
			Symbol:  c.Symbol,
			Outcome: model.OutcomeSkipped,
			Reason:  fmt.Sprintf("insufficient data: %d of %d price points", points, MinDataPoints),
		}
	}

	p := strategy.BuildPrediction(c.Symbol, history, c.CurrentPrice)
	return model.ItemResult{Symbol: c.Symbol, Outcome: model.OutcomeSuccess, Prediction: &p}
}

// usablePrices drops missing (non-positive or non-finite) closes, keeping order.
func usablePrices(prices []float64) []float64 {
	out := make([]float64, 0, len(prices))
	for _, p := range prices {
		if usable(p) {
			out = append(out, p)
		}
	}
	return out
}

func usable(p float64) bool {
	return p > 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}

func failed(symbol string, err error) model.ItemResult {
	return model.ItemResult{Symbol: symbol, Outcome: model.OutcomeError, Reason: err.Error()}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
