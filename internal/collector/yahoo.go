package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"StockPulse/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	Client  *http.Client
	Limiter *rate.Limiter
	BaseURL string
	// Suffix is appended to bare tickers, ".NS" for NSE listings.
	Suffix string
	// IndexTickers maps index names to Yahoo tickers.
	IndexTickers map[string]string
	// MaxRetryTime bounds the retries of one request.
	MaxRetryTime time.Duration
}

// NewYahooFetcher creates a Yahoo fetcher allowing rps requests per second.
func NewYahooFetcher(proxyURL string, rps float64) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if rps <= 0 {
		rps = 2
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		Limiter: rate.NewLimiter(rate.Limit(rps), 1),
		BaseURL: yahooBaseURL,
		Suffix:  ".NS",
		IndexTickers: map[string]string{
			"NIFTY 50":   "^NSEI",
			"SENSEX":     "^BSESN",
			"NIFTY BANK": "^NSEBANK",
			"NIFTY IT":   "^CNXIT",
		},
		MaxRetryTime: 30 * time.Second,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if strings.ContainsAny(symbol, ".^=") {
		return symbol
	}
	return symbol + f.Suffix
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func at(vals []*float64, i int) float64 {
	if i >= len(vals) || vals[i] == nil {
		return 0
	}
	return *vals[i]
}

// statusError is a non-200 answer. 4xx other than 429 are not retried.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("yahoo: status %d, body: %s", e.code, e.body)
}

func (f *YahooFetcher) get(ctx context.Context, u string) ([]byte, error) {
	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var body []byte
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", "Mozilla/5.0")

		resp, err := f.Client.Do(req)
		if err != nil {
			return fmt.Errorf("yahoo fetch: %w", err)
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("yahoo read body: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			serr := &statusError{code: resp.StatusCode, body: firstN(string(b), 200)}
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return backoff.Permanent(serr)
			}
			return serr
		}
		body = b
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = f.MaxRetryTime
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return body, nil
}

func (f *YahooFetcher) fetchChart(ctx context.Context, ticker, interval, rng string) ([]model.OHLCV, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(ticker), interval, rng)

	body, err := f.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned for %s", ticker)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		c := at(quote.Close, i)
		if c == 0 {
			continue // holidays and half-filled sessions
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   at(quote.Open, i),
			High:   at(quote.High, i),
			Low:    at(quote.Low, i),
			Close:  c,
			Volume: at(quote.Volume, i),
		})
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("yahoo: only empty bars for %s", ticker)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func (f *YahooFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	// Yahoo range: max "2y" for daily interval
	rng := "2y"
	if days <= 30 {
		rng = "1mo"
	} else if days <= 90 {
		rng = "3mo"
	} else if days <= 180 {
		rng = "6mo"
	} else if days <= 365 {
		rng = "1y"
	}
	bars, err := f.fetchChart(ctx, f.yahooSymbol(symbol), "1d", rng)
	if err != nil {
		return nil, err
	}
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

// FetchQuote uses the last daily bar as the live price. The change is taken
// against the previous session, or prevClose when only one bar came back.
func (f *YahooFetcher) FetchQuote(ctx context.Context, symbol string, prevClose float64) (model.Quote, error) {
	bars, err := f.fetchChart(ctx, f.yahooSymbol(symbol), "1d", "5d")
	if err != nil {
		return model.Quote{}, err
	}
	last := bars[len(bars)-1]
	ref := prevClose
	if len(bars) > 1 {
		ref = bars[len(bars)-2].Close
	}

	q := model.Quote{
		Symbol:       symbol,
		CurrentPrice: last.Close,
		Volume:       int64(last.Volume),
		LastUpdated:  time.Now(),
	}
	if ref > 0 {
		q.PriceChange = round2(last.Close - ref)
		q.PercentageChange = round2((last.Close - ref) / ref * 100)
	}
	return q, nil
}

func (f *YahooFetcher) FetchIndex(ctx context.Context, name string) (model.MarketIndex, error) {
	ticker, ok := f.IndexTickers[name]
	if !ok {
		return model.MarketIndex{}, fmt.Errorf("yahoo: no ticker for index %q", name)
	}
	bars, err := f.fetchChart(ctx, ticker, "1d", "5d")
	if err != nil {
		return model.MarketIndex{}, err
	}
	idx := model.MarketIndex{Name: name, CurrentValue: bars[len(bars)-1].Close, LastUpdated: time.Now()}
	if len(bars) > 1 {
		prev := bars[len(bars)-2].Close
		idx.ChangeValue = round2(idx.CurrentValue - prev)
		idx.ChangePercentage = round2((idx.CurrentValue - prev) / prev * 100)
	}
	return idx, nil
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
