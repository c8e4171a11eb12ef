package model

// BollingerBands is a moving average bracketed by two standard deviations.
type BollingerBands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// Indicators holds the technical readings computed from one price series.
type Indicators struct {
	SMA20     float64        `json:"sma20"`
	SMA50     float64        `json:"sma50"`
	RSI       float64        `json:"rsi"`
	MACD      float64        `json:"macd"`
	Bollinger BollingerBands `json:"bollinger"`
}
