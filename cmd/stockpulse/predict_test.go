package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"StockPulse/internal/model"
	"StockPulse/internal/strategy"
)

func TestRenderBatch(t *testing.T) {
	p := model.Prediction{
		Symbol: "INFY", CurrentPrice: 1500, PredictedPrice: 1530.25, Confidence: 71,
		Trend: model.TrendBullish, Timeframe: model.Timeframe,
		Factors: []string{strategy.FactorAboveMAs, strategy.FactorPositiveMACD, strategy.FactorOverbought, strategy.FactorNearUpperBand},
	}
	b := &model.Batch{
		Predictions: []model.Prediction{p},
		Items: []model.ItemResult{
			{Symbol: "INFY", Outcome: model.OutcomeSuccess, Prediction: &p},
			{Symbol: "TCS", Outcome: model.OutcomeError, Reason: "fetch history: timeout"},
		},
	}

	var buf bytes.Buffer
	renderBatch(&buf, b)
	out := buf.String()

	assert.Contains(t, out, "INFY")
	assert.Contains(t, out, "1530.25")
	assert.Contains(t, out, "71%")
	assert.Contains(t, out, strategy.FactorOverbought)
	assert.NotContains(t, out, strategy.FactorNearUpperBand)
	assert.Contains(t, out, "omitted TCS: error (fetch history: timeout)")
}
