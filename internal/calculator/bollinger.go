package calculator

import (
	"math"

	"StockPulse/internal/model"
)

// DefaultBollingerPeriod is the window of the dashboard Bollinger bands.
const DefaultBollingerPeriod = 20

const bollingerWidth = 2.0

// BollingerBands brackets the period moving average by two population standard
// deviations of the last period prices. Short series are still divided by period.
func BollingerBands(prices []float64, period int) model.BollingerBands {
	middle := MovingAverage(prices, period)
	if period <= 0 {
		return model.BollingerBands{Upper: middle, Middle: middle, Lower: middle}
	}

	start := len(prices) - period
	if start < 0 {
		start = 0
	}
	var sumSq float64
	for _, p := range prices[start:] {
		d := p - middle
		sumSq += d * d
	}
	stdDev := math.Sqrt(sumSq / float64(period))

	return model.BollingerBands{
		Upper:  middle + bollingerWidth*stdDev,
		Middle: middle,
		Lower:  middle - bollingerWidth*stdDev,
	}
}
