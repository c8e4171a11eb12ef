package notifier

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"StockPulse/internal/model"
	"StockPulse/internal/strategy"
)

func TestFormatPredictionDigest(t *testing.T) {
	p := model.Prediction{
		Symbol: "TCS", CurrentPrice: 200, PredictedPrice: 210, Confidence: 72,
		Trend: model.TrendBullish, Timeframe: model.Timeframe,
		Factors: []string{
			strategy.FactorOverbought,
			strategy.FactorAboveMAs,
			strategy.FactorPositiveMACD,
			strategy.FactorNearUpperBand,
		},
	}
	b := &model.Batch{
		FinishedAt:  time.Date(2024, 4, 1, 10, 5, 0, 0, time.UTC),
		Predictions: []model.Prediction{p},
		Items: []model.ItemResult{
			{Symbol: "TCS", Outcome: model.OutcomeSuccess, Prediction: &p},
			{Symbol: "NEWIPO", Outcome: model.OutcomeSkipped, Reason: "insufficient data"},
		},
	}

	msg := FormatPredictionDigest(b)
	assert.Contains(t, msg, "2024-04-01 10:05")
	assert.Contains(t, msg, "<b>TCS</b> 200.00 → 210.00 (+5.00%)")
	assert.Contains(t, msg, "72% confidence")
	assert.Contains(t, msg, "RSI &gt; 70", "factor text is HTML escaped")
	assert.Contains(t, msg, strategy.FactorPositiveMACD)
	assert.NotContains(t, msg, "Upper Bollinger", "only three factors are shown")
	assert.Contains(t, msg, "NEWIPO (skipped)")
}

func TestFormatPredictionDigest_Empty(t *testing.T) {
	msg := FormatPredictionDigest(&model.Batch{})
	assert.Contains(t, msg, "No predictions")
	assert.NotContains(t, msg, "Omitted")
}

func TestFormatMovers(t *testing.T) {
	msg := FormatMovers("Top gainers", []model.Quote{
		{Symbol: "INFY", CurrentPrice: 1500.5, PercentageChange: 2.346, Volume: 1200},
		{Symbol: "SBIN", CurrentPrice: 600, PercentageChange: -1, Volume: 10},
	})
	lines := strings.Split(strings.TrimSpace(msg), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "INFY: 1500.50 (+2.35%) vol 1200", lines[2])
	assert.Equal(t, "SBIN: 600.00 (-1.00%) vol 10", lines[3])

	assert.Contains(t, FormatMovers("Top losers", nil), "No quotes yet")
}
