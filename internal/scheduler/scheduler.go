// Package scheduler runs the quote refresh and prediction tasks on cron
// schedules and answers chat commands.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"StockPulse/internal/cache"
	"StockPulse/internal/logging"
	"StockPulse/internal/model"
	"StockPulse/internal/notifier"
	"StockPulse/internal/recorder"
	"StockPulse/internal/store"
)

// MarketRefresher updates live market data.
type MarketRefresher interface {
	RefreshQuotes(ctx context.Context) (int, error)
	RefreshIndices(ctx context.Context) error
}

// Predictor produces one prediction batch.
type Predictor interface {
	Run(ctx context.Context) (*model.Batch, error)
}

// Messenger delivers chat messages.
type Messenger interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Publisher pushes finished batches to live subscribers.
type Publisher interface {
	Publish(b *model.Batch)
}

// MoversSource lists top movers for the /movers command.
type MoversSource interface {
	Movers(ctx context.Context, kind string, limit int) ([]model.Quote, error)
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Collector MarketRefresher
	Runner    Predictor
	Cache     cache.Cache
	Recorder  recorder.Recorder
	Logger    zerolog.Logger
	Ctx       context.Context

	// Optional collaborators; nil disables them.
	Notifier    Messenger
	Publisher   Publisher
	Movers      MoversSource
	NotifyOnRun bool

	runMu sync.Mutex
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col MarketRefresher, runner Predictor, c cache.Cache, rec recorder.Recorder, logger zerolog.Logger) *Scheduler {
	logger = logging.OrGlobal(logger)
	cl := cronLogger{logger: logger}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		Collector: col,
		Runner:    runner,
		Cache:     c,
		Recorder:  rec,
		Logger:    logger,
		Ctx:       ctx,
	}
}

// RegisterAll registers the quote refresh and prediction tasks.
func (s *Scheduler) RegisterAll(quoteCron, predictionCron string) error {
	if _, err := s.Cron.AddFunc(quoteCron, s.quoteTask); err != nil {
		return fmt.Errorf("register quote task: %w", err)
	}
	if _, err := s.Cron.AddFunc(predictionCron, s.predictionTask); err != nil {
		return fmt.Errorf("register prediction task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running tasks.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info().Msg("scheduler stopped")
}

func (s *Scheduler) quoteTask() {
	if err := s.RefreshQuotesNow(s.Ctx); err != nil {
		s.Logger.Error().Err(err).Msg("quote task")
	}
}

func (s *Scheduler) predictionTask() {
	if _, err := s.RunPredictionsNow(s.Ctx); err != nil {
		s.Logger.Error().Err(err).Msg("prediction task")
	}
}

// RefreshQuotesNow refreshes live quotes and market indices.
func (s *Scheduler) RefreshQuotesNow(ctx context.Context) error {
	if _, err := s.Collector.RefreshQuotes(ctx); err != nil {
		return fmt.Errorf("refresh quotes: %w", err)
	}
	if err := s.Collector.RefreshIndices(ctx); err != nil {
		return fmt.Errorf("refresh indices: %w", err)
	}
	return nil
}

// RunPredictionsNow runs one batch and replaces the cached batch with it.
// Runs never overlap; a second caller waits for the first to finish.
func (s *Scheduler) RunPredictionsNow(ctx context.Context) (*model.Batch, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	b, err := s.Runner.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("prediction run: %w", err)
	}

	if err := s.Cache.Store(ctx, b); err != nil {
		s.Logger.Error().Err(err).Str("run_id", b.RunID).Msg("cache batch")
	}
	if err := s.Recorder.RecordBatch(ctx, b); err != nil {
		s.Logger.Error().Err(err).Str("run_id", b.RunID).Msg("record batch")
	}
	if s.Publisher != nil {
		s.Publisher.Publish(b)
	}
	if s.NotifyOnRun {
		s.trySend(ctx, notifier.FormatPredictionDigest(b))
	}
	return b, nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	cmd := strings.Fields(command)
	if len(cmd) == 0 {
		return notifier.FormatHelp()
	}
	// "/predictions@SomeBot" in group chats
	name, _, _ := strings.Cut(strings.ToLower(cmd[0]), "@")

	switch name {
	case "/predictions":
		b, err := s.Cache.Latest(ctx)
		if errors.Is(err, cache.ErrMiss) {
			return "No predictions yet. Send /refresh to run one."
		}
		if err != nil {
			s.Logger.Error().Err(err).Msg("read cached batch")
			return "❌ Could not load predictions."
		}
		return notifier.FormatPredictionDigest(b)

	case "/refresh":
		if err := s.RefreshQuotesNow(ctx); err != nil {
			s.Logger.Error().Err(err).Msg("manual refresh")
			return fmt.Sprintf("❌ Refresh failed: %v", err)
		}
		b, err := s.RunPredictionsNow(ctx)
		if err != nil {
			return fmt.Sprintf("❌ Prediction run failed: %v", err)
		}
		return notifier.FormatPredictionDigest(b)

	case "/movers":
		if s.Movers == nil {
			return "Movers are not available."
		}
		gainers, err := s.Movers.Movers(ctx, store.MoversGainers, 5)
		if err != nil {
			return fmt.Sprintf("❌ Could not load movers: %v", err)
		}
		losers, err := s.Movers.Movers(ctx, store.MoversLosers, 5)
		if err != nil {
			return fmt.Sprintf("❌ Could not load movers: %v", err)
		}
		return notifier.FormatMovers("Top gainers", gainers) + "\n" + notifier.FormatMovers("Top losers", losers)

	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(ctx, text, 3); err != nil {
		s.Logger.Error().Err(err).Msg("send notification")
	}
}

// cronLogger routes cron's own messages into zerolog.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
