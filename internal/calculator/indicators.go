package calculator

import "StockPulse/internal/model"

// Compute derives the full indicator set from one price series.
func Compute(prices []float64) model.Indicators {
	return model.Indicators{
		SMA20:     MovingAverage(prices, 20),
		SMA50:     MovingAverage(prices, 50),
		RSI:       RSI(prices, DefaultRSIPeriod),
		MACD:      MACD(prices),
		Bollinger: BollingerBands(prices, DefaultBollingerPeriod),
	}
}
