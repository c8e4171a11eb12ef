package strategy

import (
	"math"

	"StockPulse/internal/calculator"
	"StockPulse/internal/forecast"
	"StockPulse/internal/model"
)

// trendThreshold is the relative change beyond which a forecast is directional.
const trendThreshold = 0.02

// ClassifyTrend maps a relative price change to a trend. The breakpoints
// themselves are neutral.
func ClassifyTrend(relativeChange float64) model.Trend {
	switch {
	case relativeChange > trendThreshold:
		return model.TrendBullish
	case relativeChange < -trendThreshold:
		return model.TrendBearish
	default:
		return model.TrendNeutral
	}
}

// WorkingSeries returns a copy of the historical closes with the live price
// appended when it is known (positive).
func WorkingSeries(historical []float64, currentPrice float64) []float64 {
	series := make([]float64, len(historical), len(historical)+1)
	copy(series, historical)
	if currentPrice > 0 {
		series = append(series, currentPrice)
	}
	return series
}

// BuildPrediction runs the indicator, trend and rationale steps for one symbol.
// It never fails; short or degenerate input degrades to neutral readings.
func BuildPrediction(symbol string, historical []float64, currentPrice float64) model.Prediction {
	series := WorkingSeries(historical, currentPrice)

	ind := calculator.Compute(series)
	fc := forecast.Predict(series)

	return model.Prediction{
		Symbol:         symbol,
		CurrentPrice:   currentPrice,
		PredictedPrice: roundCents(currentPrice * (1 + fc.RelativeChange)),
		Confidence:     fc.Confidence,
		Trend:          ClassifyTrend(fc.RelativeChange),
		Timeframe:      model.Timeframe,
		Factors:        Explain(ind, currentPrice),
		Technicals:     ind,
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
