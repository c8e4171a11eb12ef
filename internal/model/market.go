package model

import "time"

// OHLCV represents a single daily candlestick bar.
type OHLCV struct {
	Time   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Company is a listed equity tracked by the dashboard.
type Company struct {
	ID       int64  `json:"id"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Sector   string `json:"sector,omitempty"`
	Industry string `json:"industry,omitempty"`
	Exchange string `json:"exchange,omitempty"`
	Active   bool   `json:"isActive"`
}

// Quote is the latest live price of a company.
type Quote struct {
	Symbol           string    `json:"symbol"`
	Name             string    `json:"name,omitempty"`
	Sector           string    `json:"sector,omitempty"`
	CurrentPrice     float64   `json:"currentPrice"`
	PriceChange      float64   `json:"priceChange"`
	PercentageChange float64   `json:"percentageChange"`
	Volume           int64     `json:"volume"`
	LastUpdated      time.Time `json:"lastUpdated"`
}

// MarketIndex is a headline index shown in the market overview.
type MarketIndex struct {
	Name             string    `json:"name"`
	CurrentValue     float64   `json:"currentValue"`
	ChangeValue      float64   `json:"changeValue"`
	ChangePercentage float64   `json:"changePercentage"`
	LastUpdated      time.Time `json:"lastUpdated"`
}
