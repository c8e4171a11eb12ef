package collector

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"sync"
	"time"

	"StockPulse/internal/model"
)

// SimulatedFetcher generates random-walk market data. Bars are deterministic
// per (seed, symbol); quotes draw from a shared source.
type SimulatedFetcher struct {
	Seed int64
	Now  func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedFetcher creates a fetcher seeded with seed.
func NewSimulatedFetcher(seed int64) *SimulatedFetcher {
	return &SimulatedFetcher{
		Seed: seed,
		Now:  time.Now,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

func (f *SimulatedFetcher) Name() string { return "simulated" }

func (f *SimulatedFetcher) symbolRand(symbol string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return rand.New(rand.NewSource(f.Seed ^ int64(h.Sum64())))
}

// FetchDailyBars walks a price between 500 and 2500 over the last days
// weekdays.
func (f *SimulatedFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if days <= 0 {
		return []model.OHLCV{}, nil
	}
	r := f.symbolRand(symbol)
	dates := weekdaysBefore(f.Now(), days)

	price := r.Float64()*2000 + 500
	bars := make([]model.OHLCV, 0, days)
	for _, d := range dates {
		open := price
		price = math.Max(1, price*(1+r.NormFloat64()*0.015))
		hi := math.Max(open, price) * (1 + r.Float64()*0.01)
		lo := math.Min(open, price) * (1 - r.Float64()*0.01)
		bars = append(bars, model.OHLCV{
			Time:   d,
			Open:   round2(open),
			High:   round2(hi),
			Low:    round2(lo),
			Close:  round2(price),
			Volume: math.Floor(r.Float64() * 50_000_000),
		})
	}
	return bars, nil
}

// FetchQuote moves prevClose by up to ±2%. Without a reference price it
// invents one between 500 and 2500 and a change of up to ±50.
func (f *SimulatedFetcher) FetchQuote(ctx context.Context, symbol string, prevClose float64) (model.Quote, error) {
	if err := ctx.Err(); err != nil {
		return model.Quote{}, err
	}
	f.mu.Lock()
	if f.rng == nil {
		f.rng = rand.New(rand.NewSource(f.Seed))
	}
	u1, u2, u3 := f.rng.Float64(), f.rng.Float64(), f.rng.Float64()
	f.mu.Unlock()

	var price, change float64
	if prevClose > 0 {
		change = prevClose * (u1 - 0.5) * 0.04
		price = prevClose + change
	} else {
		price = u1*2000 + 500
		change = (u2 - 0.5) * 100
		prevClose = price - change
	}

	return model.Quote{
		Symbol:           symbol,
		CurrentPrice:     round2(price),
		PriceChange:      round2(change),
		PercentageChange: round2(change / prevClose * 100),
		Volume:           int64(u3 * 50_000_000),
		LastUpdated:      f.Now(),
	}, nil
}

// driftIndex moves an index up to ±250 points around its base value.
func driftIndex(r *rand.Rand, name string, base float64, now time.Time) model.MarketIndex {
	change := (r.Float64() - 0.5) * 500
	return model.MarketIndex{
		Name:             name,
		CurrentValue:     round2(base + change),
		ChangeValue:      round2(change),
		ChangePercentage: round2(change / base * 100),
		LastUpdated:      now,
	}
}

func weekdaysBefore(now time.Time, n int) []time.Time {
	out := make([]time.Time, n)
	d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for i := n - 1; i >= 0; {
		d = d.AddDate(0, 0, -1)
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		out[i] = d
		i--
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
