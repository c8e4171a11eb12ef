// Package collector pulls market data from a Fetcher into the store.
package collector

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"StockPulse/internal/logging"
	"StockPulse/internal/metrics"
	"StockPulse/internal/model"
	"StockPulse/internal/store"
)

// Collector keeps companies, daily bars, quotes and indices up to date.
// Failures for one company are logged and never stop the others.
type Collector struct {
	Store   *store.Store
	Fetcher Fetcher
	Metrics *metrics.Metrics
	Logger  zerolog.Logger
	Indices []IndexBase

	mu  sync.Mutex
	rng *rand.Rand
}

// NewCollector creates a new Collector.
func NewCollector(st *store.Store, fetcher Fetcher, m *metrics.Metrics, logger zerolog.Logger) *Collector {
	return &Collector{
		Store:   st,
		Fetcher: fetcher,
		Metrics: m,
		Logger:  logging.OrGlobal(logger).With().Str("source", fetcher.Name()).Logger(),
		Indices: DefaultIndices,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SeedCompanies upserts the default universe and returns how many were written.
func (c *Collector) SeedCompanies(ctx context.Context) (int, error) {
	n := 0
	for _, co := range DefaultUniverse {
		if _, err := c.Store.UpsertCompany(ctx, co); err != nil {
			return n, fmt.Errorf("seed companies: %w", err)
		}
		n++
	}
	c.Logger.Info().Int("companies", n).Msg("companies seeded")
	return n, nil
}

// Backfill loads days of daily bars for every active company and returns the
// number of bars written.
func (c *Collector) Backfill(ctx context.Context, days int) (int, error) {
	companies, err := c.Store.ListCompanies(ctx, true)
	if err != nil {
		return 0, fmt.Errorf("backfill: %w", err)
	}

	total := 0
	for _, co := range companies {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		bars, err := c.Fetcher.FetchDailyBars(ctx, co.Symbol, days)
		if err != nil {
			c.Metrics.FetchFailed(c.Fetcher.Name())
			c.Logger.Warn().Err(err).Str("symbol", co.Symbol).Msg("daily bars fetch failed")
			continue
		}
		for _, b := range bars {
			if err := c.Store.UpsertDailyBar(ctx, co.ID, b); err != nil {
				return total, fmt.Errorf("backfill %s: %w", co.Symbol, err)
			}
			total++
		}
	}
	c.Logger.Info().Int("companies", len(companies)).Int("bars", total).Msg("backfill done")
	return total, nil
}

// RefreshQuotes updates the live quote of every active company and returns
// the number updated. It fails only when the company list can't be read.
func (c *Collector) RefreshQuotes(ctx context.Context) (int, error) {
	companies, err := c.Store.ListCompanies(ctx, true)
	if err != nil {
		return 0, fmt.Errorf("refresh quotes: %w", err)
	}
	quotes, err := c.Store.ListQuotes(ctx)
	if err != nil {
		return 0, fmt.Errorf("refresh quotes: %w", err)
	}
	prev := make(map[string]float64, len(quotes))
	for _, q := range quotes {
		prev[q.Symbol] = q.CurrentPrice
	}

	updated := 0
	for _, co := range companies {
		if err := ctx.Err(); err != nil {
			return updated, err
		}
		if err := c.refreshOne(ctx, co, prev[co.Symbol]); err != nil {
			c.Metrics.QuoteRefreshed(false)
			c.Logger.Warn().Err(err).Str("symbol", co.Symbol).Msg("quote refresh failed")
			continue
		}
		c.Metrics.QuoteRefreshed(true)
		updated++
	}
	c.Logger.Info().Int("updated", updated).Int("companies", len(companies)).Msg("quotes refreshed")
	return updated, nil
}

func (c *Collector) refreshOne(ctx context.Context, co model.Company, prevClose float64) error {
	if prevClose <= 0 {
		hist, err := c.Store.History(ctx, co.Symbol, 1)
		if err != nil {
			return err
		}
		if len(hist) > 0 {
			prevClose = hist[0]
		}
	}
	q, err := c.Fetcher.FetchQuote(ctx, co.Symbol, prevClose)
	if err != nil {
		c.Metrics.FetchFailed(c.Fetcher.Name())
		return fmt.Errorf("fetch quote: %w", err)
	}
	return c.Store.UpsertQuote(ctx, co.ID, q)
}

// RefreshIndices updates the tracked indices. Fetchers that can't quote
// indices get a simulated drift around each base level.
func (c *Collector) RefreshIndices(ctx context.Context) error {
	idxFetcher, live := c.Fetcher.(IndexFetcher)
	for _, ib := range c.Indices {
		var idx model.MarketIndex
		if live {
			var err error
			idx, err = idxFetcher.FetchIndex(ctx, ib.Name)
			if err != nil {
				c.Metrics.FetchFailed(c.Fetcher.Name())
				c.Logger.Warn().Err(err).Str("index", ib.Name).Msg("index fetch failed")
				continue
			}
		} else {
			c.mu.Lock()
			idx = driftIndex(c.rng, ib.Name, ib.Base, time.Now())
			c.mu.Unlock()
		}
		if err := c.Store.UpsertIndex(ctx, idx); err != nil {
			return fmt.Errorf("refresh indices: %w", err)
		}
	}
	return nil
}
