package calculator

import (
	"github.com/montanaflynn/stats"

	"StockPulse/internal/model"
)

// MovingAverage computes the simple moving average of the last period prices.
// When fewer than period prices are available it echoes the last price (0 for an empty series).
func MovingAverage(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period {
		return lastOrZero(prices)
	}
	mean, err := stats.Mean(prices[len(prices)-period:])
	if err != nil {
		return lastOrZero(prices)
	}
	return mean
}

// ExponentialMovingAverage seeds with the first price and walks the whole series
// with multiplier 2/(period+1). The result depends on every supplied price, so
// callers must pass a consistent window.
func ExponentialMovingAverage(prices []float64, period int) float64 {
	switch len(prices) {
	case 0:
		return 0
	case 1:
		return prices[0]
	}
	k := 2.0 / float64(period+1)
	ema := prices[0]
	for _, p := range prices[1:] {
		ema = p*k + ema*(1-k)
	}
	return ema
}

// Closes extracts closing prices from bars, preserving order.
func Closes(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

func lastOrZero(prices []float64) float64 {
	if len(prices) == 0 {
		return 0
	}
	return prices[len(prices)-1]
}
