// Package forecast fits a short-window linear trend to recent prices and
// turns it into a relative price-change forecast with a confidence score.
package forecast

import (
	"math"

	"github.com/montanaflynn/stats"
)

const (
	// MinPoints is the shortest series the predictor will fit.
	MinPoints = 5
	// MaxWindow caps how many trailing prices take part in the fit.
	MaxWindow = 30

	MinConfidence = 30
	MaxConfidence = 85

	baseConfidence    = 70.0
	volatilityPenalty = 1000.0
	trendBonus        = 100.0
)

// Forecast is the outcome of a trend fit.
type Forecast struct {
	RelativeChange float64 `json:"relativeChange"`
	Confidence     int     `json:"confidence"`
}

// Neutral is returned for series too short (or too degenerate) to fit.
var Neutral = Forecast{RelativeChange: 0, Confidence: MinConfidence}

// Predict fits an ordinary least squares line over the last MaxWindow prices,
// extrapolates one step past the window and reports the change relative to
// the window's last price.
func Predict(prices []float64) Forecast {
	if len(prices) < MinPoints {
		return Neutral
	}

	n := len(prices)
	if n > MaxWindow {
		n = MaxWindow
	}
	window := prices[len(prices)-n:]
	last := window[n-1]
	if last == 0 {
		return Neutral
	}

	slope, intercept := fitLine(window)
	next := slope*float64(n) + intercept

	return Forecast{
		RelativeChange: (next - last) / last,
		Confidence:     confidence(window, slope, last),
	}
}

// fitLine solves the normal equations for y = slope*x + intercept with x = 0..n-1.
func fitLine(window []float64) (slope, intercept float64) {
	n := float64(len(window))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range window {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	slope = (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

// confidence rewards a steep slope and penalises noisy step-to-step changes.
func confidence(window []float64, slope, last float64) int {
	changes := make([]float64, 0, len(window)-1)
	for i := 1; i < len(window); i++ {
		changes = append(changes, window[i]-window[i-1])
	}
	variance, err := stats.PopulationVariance(changes)
	if err != nil {
		return MinConfidence
	}
	volatility := math.Sqrt(variance)
	trendStrength := math.Abs(slope) / last

	raw := baseConfidence - volatility/last*volatilityPenalty + trendStrength*trendBonus
	return clampConfidence(raw)
}

func clampConfidence(raw float64) int {
	if math.IsNaN(raw) {
		return MinConfidence
	}
	raw = math.Max(MinConfidence, math.Min(MaxConfidence, raw))
	return int(math.Round(raw))
}
