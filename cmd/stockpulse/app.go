package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"StockPulse/internal/batch"
	"StockPulse/internal/cache"
	"StockPulse/internal/collector"
	"StockPulse/internal/config"
	"StockPulse/internal/metrics"
	"StockPulse/internal/recorder"
	"StockPulse/internal/store"
)

// app bundles the components shared by every subcommand.
type app struct {
	cfg       *config.Config
	store     *store.Store
	registry  *prometheus.Registry
	metrics   *metrics.Metrics
	collector *collector.Collector
	runner    *batch.Runner
	cache     cache.Cache
	recorder  recorder.Recorder
	closers   []func() error
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	st, err := store.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.store = st
	a.closers = append(a.closers, st.Close)

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = metrics.NewMetrics(a.registry)

	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case config.ProviderYahoo:
		fetcher = collector.NewYahooFetcher(cfg.DataSource.Proxy, cfg.DataSource.RequestsPerSecond)
	default:
		seed := cfg.DataSource.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		fetcher = collector.NewSimulatedFetcher(seed)
	}
	log.Info().Str("source", fetcher.Name()).Msg("data source selected")
	a.collector = collector.NewCollector(st, fetcher, a.metrics, log.Logger)

	a.runner = batch.NewRunner(st, a.metrics, log.Logger.With().Str("component", "batch").Logger())
	a.runner.CandidateLimit = cfg.Prediction.Candidates
	a.runner.HistoryDepth = cfg.Prediction.HistoryDepth
	a.runner.Workers = cfg.Prediction.Workers

	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, using in-memory cache")
			a.cache = cache.NewMemoryCache()
		} else {
			a.cache = rc
			a.closers = append(a.closers, rc.Close)
		}
	} else {
		a.cache = cache.NewMemoryCache()
	}

	rec, err := recorder.NewSQLRecorder(st)
	if err != nil {
		log.Warn().Err(err).Msg("init prediction recorder failed, using noop")
		a.recorder = recorder.NewNoopRecorder()
	} else {
		a.recorder = rec
	}
	return a, nil
}

// ensureSeeded loads the default universe and history into an empty database.
func (a *app) ensureSeeded(ctx context.Context, days int) error {
	companies, err := a.store.ListCompanies(ctx, false)
	if err != nil {
		return err
	}
	if len(companies) > 0 {
		return nil
	}
	log.Info().Msg("empty database, seeding default universe")
	if _, err := a.collector.SeedCompanies(ctx); err != nil {
		return err
	}
	if _, err := a.collector.Backfill(ctx, days); err != nil {
		return err
	}
	if _, err := a.collector.RefreshQuotes(ctx); err != nil {
		return err
	}
	return a.collector.RefreshIndices(ctx)
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		log.Warn().Err(err).Msg("close recorder")
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Warn().Err(err).Msg("close")
		}
	}
}
