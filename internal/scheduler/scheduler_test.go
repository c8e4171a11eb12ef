package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/cache"
	"StockPulse/internal/model"
	"StockPulse/internal/recorder"
	"StockPulse/internal/store"
)

type fakeRefresher struct {
	quotes, indices int
	err             error
}

func (f *fakeRefresher) RefreshQuotes(context.Context) (int, error) {
	f.quotes++
	return 3, f.err
}

func (f *fakeRefresher) RefreshIndices(context.Context) error {
	f.indices++
	return nil
}

type fakePredictor struct {
	runs int
	err  error
}

func (f *fakePredictor) Run(context.Context) (*model.Batch, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.runs++
	p := model.Prediction{Symbol: "TCS", CurrentPrice: 100, PredictedPrice: 103, Confidence: 70,
		Trend: model.TrendBullish, Timeframe: model.Timeframe, Factors: []string{"Positive momentum (MACD)"}}
	return &model.Batch{
		RunID:       "run-" + string(rune('0'+f.runs)),
		FinishedAt:  time.Now(),
		Predictions: []model.Prediction{p},
		Items:       []model.ItemResult{{Symbol: "TCS", Outcome: model.OutcomeSuccess, Prediction: &p}},
	}, nil
}

type fakeRecorder struct {
	recorder.NoopRecorder
	mu   sync.Mutex
	runs []string
}

func (f *fakeRecorder) RecordBatch(_ context.Context, b *model.Batch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, b.RunID)
	return nil
}

type fakeMessenger struct{ sent []string }

func (f *fakeMessenger) SendWithRetry(_ context.Context, text string, _ int) error {
	f.sent = append(f.sent, text)
	return nil
}

type fakePublisher struct{ published []string }

func (f *fakePublisher) Publish(b *model.Batch) { f.published = append(f.published, b.RunID) }

type fakeMovers struct{}

func (fakeMovers) Movers(_ context.Context, kind string, _ int) ([]model.Quote, error) {
	if kind == store.MoversGainers {
		return []model.Quote{{Symbol: "INFY", CurrentPrice: 1500, PercentageChange: 2}}, nil
	}
	return []model.Quote{{Symbol: "SBIN", CurrentPrice: 600, PercentageChange: -1.5}}, nil
}

type harness struct {
	s    *Scheduler
	col  *fakeRefresher
	pred *fakePredictor
	rec  *fakeRecorder
	msg  *fakeMessenger
	pub  *fakePublisher
	c    *cache.MemoryCache
}

func newHarness() *harness {
	h := &harness{
		col:  &fakeRefresher{},
		pred: &fakePredictor{},
		rec:  &fakeRecorder{},
		msg:  &fakeMessenger{},
		pub:  &fakePublisher{},
		c:    cache.NewMemoryCache(),
	}
	h.s = NewScheduler(context.Background(), h.col, h.pred, h.c, h.rec, zerolog.Nop())
	h.s.Notifier = h.msg
	h.s.Publisher = h.pub
	h.s.Movers = fakeMovers{}
	return h
}

func TestRegisterAll_RejectsBadCron(t *testing.T) {
	h := newHarness()
	assert.NoError(t, h.s.RegisterAll("0 */5 * * * *", "30 */5 * * * *"))
	assert.Error(t, h.s.RegisterAll("not a cron", "0 * * * * *"))
}

func TestRunPredictionsNow_FansOut(t *testing.T) {
	h := newHarness()
	h.s.NotifyOnRun = true
	ctx := context.Background()

	b, err := h.s.RunPredictionsNow(ctx)
	require.NoError(t, err)

	cached, err := h.c.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.RunID, cached.RunID)
	assert.Equal(t, []string{b.RunID}, h.rec.runs)
	assert.Equal(t, []string{b.RunID}, h.pub.published)
	require.Len(t, h.msg.sent, 1)
	assert.Contains(t, h.msg.sent[0], "<b>TCS</b>")
}

func TestRunPredictionsNow_LatestReplacesPrevious(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, err := h.s.RunPredictionsNow(ctx)
	require.NoError(t, err)
	second, err := h.s.RunPredictionsNow(ctx)
	require.NoError(t, err)

	cached, err := h.c.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.RunID, cached.RunID)
	assert.Empty(t, h.msg.sent, "notify_on_run disabled")
}

func TestRunPredictionsNow_FailureKeepsPreviousBatch(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	first, err := h.s.RunPredictionsNow(ctx)
	require.NoError(t, err)

	h.pred.err = errors.New("db down")
	_, err = h.s.RunPredictionsNow(ctx)
	assert.ErrorContains(t, err, "db down")

	cached, err := h.c.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.RunID, cached.RunID)
}

func TestHandleCommand(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	assert.Contains(t, h.s.HandleCommand(ctx, "/predictions"), "No predictions yet")

	reply := h.s.HandleCommand(ctx, "/refresh")
	assert.Contains(t, reply, "<b>TCS</b>")
	assert.Equal(t, 1, h.col.quotes)
	assert.Equal(t, 1, h.col.indices)
	assert.Equal(t, 1, h.pred.runs)

	assert.Contains(t, h.s.HandleCommand(ctx, "/predictions@StockPulseBot"), "<b>TCS</b>")

	movers := h.s.HandleCommand(ctx, "/movers")
	assert.Contains(t, movers, "INFY")
	assert.Contains(t, movers, "SBIN")

	assert.Contains(t, h.s.HandleCommand(ctx, "hello"), "/predictions")
	assert.Contains(t, h.s.HandleCommand(ctx, ""), "/refresh")
}

func TestHandleCommand_RefreshFailure(t *testing.T) {
	h := newHarness()
	h.col.err = errors.New("store locked")
	reply := h.s.HandleCommand(context.Background(), "/refresh")
	assert.Contains(t, reply, "store locked")
	assert.Equal(t, 0, h.pred.runs)
}
