package calculator

// DefaultRSIPeriod is the look-back used for the dashboard RSI.
const DefaultRSIPeriod = 14

// RSI computes the relative strength index from simple averages of the last
// period gains and losses. Returns 50 when there are fewer than period+1
// prices and 100 when the window has no losses, flat windows included.
func RSI(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period+1 {
		return 50.0
	}

	gains := make([]float64, 0, len(prices)-1)
	losses := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else if change < 0 {
			loss = -change
		}
		gains = append(gains, gain)
		losses = append(losses, loss)
	}

	var avgGain, avgLoss float64
	for i := len(gains) - period; i < len(gains); i++ {
		avgGain += gains[i]
		avgLoss += losses[i]
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
