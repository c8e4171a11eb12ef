package strategy

import "StockPulse/internal/model"

// Factor texts in the order they can appear.
const (
	FactorOverbought    = "Overbought conditions (RSI > 70)"
	FactorOversold      = "Oversold conditions (RSI < 30)"
	FactorAboveMAs      = "Price above key moving averages"
	FactorBelowMAs      = "Price below key moving averages"
	FactorPositiveMACD  = "Positive momentum (MACD)"
	FactorNegativeMACD  = "Negative momentum (MACD)"
	FactorNearUpperBand = "Price near resistance (Upper Bollinger)"
	FactorNearLowerBand = "Price near support (Lower Bollinger)"
	FactorNeutral       = "Technical analysis neutral"
)

// MaxDisplayedFactors is how many factors presentation layers show per prediction.
const MaxDisplayedFactors = 3

const (
	rsiOverbought = 70.0
	rsiOversold   = 30.0
)

// Explain maps indicator readings to an ordered list of human-readable factors.
// The list is never empty.
func Explain(ind model.Indicators, currentPrice float64) []string {
	factors := make([]string, 0, 4)

	// RSI
	switch {
	case ind.RSI > rsiOverbought:
		factors = append(factors, FactorOverbought)
	case ind.RSI < rsiOversold:
		factors = append(factors, FactorOversold)
	}

	// Moving averages; a price between the two gives no factor.
	switch {
	case currentPrice > ind.SMA20 && currentPrice > ind.SMA50:
		factors = append(factors, FactorAboveMAs)
	case currentPrice < ind.SMA20 && currentPrice < ind.SMA50:
		factors = append(factors, FactorBelowMAs)
	}

	// MACD
	if ind.MACD > 0 {
		factors = append(factors, FactorPositiveMACD)
	} else {
		factors = append(factors, FactorNegativeMACD)
	}

	// Bollinger
	switch {
	case currentPrice > ind.Bollinger.Upper:
		factors = append(factors, FactorNearUpperBand)
	case currentPrice < ind.Bollinger.Lower:
		factors = append(factors, FactorNearLowerBand)
	}

	if len(factors) == 0 {
		return []string{FactorNeutral}
	}
	return factors
}

// Displayed truncates factors to what a UI shows.
func Displayed(factors []string) []string {
	if len(factors) > MaxDisplayedFactors {
		return factors[:MaxDisplayedFactors]
	}
	return factors
}
