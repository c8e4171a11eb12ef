package calculator

import (
	"errors"
	"math"

	"StockPulse/internal/model"
)

// TradingDaysPerYear is the bar count of a 52-week window.
const TradingDaysPerYear = 252

// PriceRange scans the most recent n bars and returns the highest high and
// lowest low. Bars without a high or low fall back to their close.
func PriceRange(bars []model.OHLCV, n int) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	start := len(bars) - n
	if start < 0 || n <= 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars[start:] {
		hi, lo := b.High, b.Low
		if hi == 0 {
			hi = b.Close
		}
		if lo == 0 {
			lo = b.Close
		}
		high = math.Max(high, hi)
		low = math.Min(low, lo)
	}
	return high, low, nil
}

// RangePosition returns where price sits within [low, high], clamped to 0..1.
func RangePosition(price, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (price - low) / (high - low)
	return math.Min(1, math.Max(0, pos)), nil
}
