package model

// Trend is the direction a forecast points to.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

// Timeframe is the horizon label attached to every prediction.
const Timeframe = "7 days"

// Prediction is the per-symbol output of the prediction engine.
type Prediction struct {
	Symbol         string     `json:"symbol"`
	CurrentPrice   float64    `json:"currentPrice"`
	PredictedPrice float64    `json:"predictedPrice"`
	Confidence     int        `json:"confidence"`
	Trend          Trend      `json:"trend"`
	Timeframe      string     `json:"timeframe"`
	Factors        []string   `json:"factors"`
	Technicals     Indicators `json:"technicals"`
}
