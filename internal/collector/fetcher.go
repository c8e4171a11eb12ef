package collector

import (
	"context"

	"StockPulse/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchDailyBars returns up to days daily bars, oldest first.
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error)
	// FetchQuote returns the live quote; prevClose (0 when unknown) is the
	// reference for the reported change.
	FetchQuote(ctx context.Context, symbol string, prevClose float64) (model.Quote, error)
	Name() string
}

// IndexFetcher is implemented by fetchers that can quote market indices.
type IndexFetcher interface {
	FetchIndex(ctx context.Context, name string) (model.MarketIndex, error)
}
