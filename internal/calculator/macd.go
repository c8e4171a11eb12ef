package calculator

const (
	macdFastPeriod = 12
	macdSlowPeriod = 26
)

// MACD returns the difference between the 12- and 26-period EMAs.
func MACD(prices []float64) float64 {
	return ExponentialMovingAverage(prices, macdFastPeriod) - ExponentialMovingAverage(prices, macdSlowPeriod)
}
