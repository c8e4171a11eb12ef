package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedCompany(t *testing.T, s *Store, symbol, name string) int64 {
	t.Helper()
	id, err := s.UpsertCompany(context.Background(), model.Company{
		Symbol: symbol, Name: name, Sector: "Technology", Exchange: "NSE", Active: true,
	})
	require.NoError(t, err)
	return id
}

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	_, err := Open("mysql", "x")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	pg := &Store{driver: DriverPostgres}
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", pg.Rebind("SELECT * FROM t WHERE a = ? AND b = ?"))

	lite := &Store{driver: DriverSQLite}
	assert.Equal(t, "a = ?", lite.Rebind("a = ?"))
}

func TestCompanies(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id := seedCompany(t, s, "tcs", "Tata Consultancy Services")
	seedCompany(t, s, "INFY", "Infosys")
	_, err := s.UpsertCompany(ctx, model.Company{Symbol: "OLD", Name: "Delisted Ltd", Active: false})
	require.NoError(t, err)

	again, err := s.UpsertCompany(ctx, model.Company{Symbol: "TCS", Name: "TCS Ltd", Active: true})
	require.NoError(t, err)
	assert.Equal(t, id, again, "upsert keeps the id")

	c, err := s.CompanyBySymbol(ctx, "tcs")
	require.NoError(t, err)
	assert.Equal(t, "TCS", c.Symbol)
	assert.Equal(t, "TCS Ltd", c.Name)
	assert.True(t, c.Active)

	_, err = s.CompanyBySymbol(ctx, "NOPE")
	assert.True(t, errors.Is(err, ErrNotFound))

	all, err := s.ListCompanies(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	active, err := s.ListCompanies(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	found, err := s.SearchCompanies(ctx, "inf", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "INFY", found[0].Symbol)

	byName, err := s.SearchCompanies(ctx, "consult", 10)
	require.NoError(t, err)
	assert.Empty(t, byName, "name was replaced by the second upsert")

	byName, err = s.SearchCompanies(ctx, "ltd", 10)
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "TCS", byName[0].Symbol)
}

func TestHistory_MostRecentAscending(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id := seedCompany(t, s, "RELIANCE", "Reliance Industries")

	// inserted out of order on purpose
	for _, n := range []int{3, 0, 4, 1, 2, 5} {
		require.NoError(t, s.UpsertDailyBar(ctx, id, model.OHLCV{
			Time: day(n), Open: 100, High: 110, Low: 90, Close: 100 + float64(n), Volume: 1000,
		}))
	}
	_, err := s.Exec(ctx, `INSERT INTO stock_prices (company_id, date, created_at) VALUES (?,?,?)`,
		id, day(6).Format(dateLayout), time.Now().Unix())
	require.NoError(t, err)

	hist, err := s.History(ctx, "reliance", 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{103, 104, 105}, hist)

	hist, err = s.History(ctx, "RELIANCE", 50)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 101, 102, 103, 104, 105}, hist, "null close is skipped")

	none, err := s.History(ctx, "UNKNOWN", 50)
	require.NoError(t, err)
	assert.Empty(t, none)

	bars, err := s.Bars(ctx, "RELIANCE", 2)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, day(5), bars[0].Time)
	assert.Equal(t, day(6), bars[1].Time)
}

func TestUpsertDailyBar_ReplacesSameDate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id := seedCompany(t, s, "HDFCBANK", "HDFC Bank")

	require.NoError(t, s.UpsertDailyBar(ctx, id, model.OHLCV{Time: day(0), Close: 10}))
	require.NoError(t, s.UpsertDailyBar(ctx, id, model.OHLCV{Time: day(0), Close: 12}))

	hist, err := s.History(ctx, "HDFCBANK", 10)
	require.NoError(t, err)
	assert.Equal(t, []float64{12}, hist)
}

func TestQuotesMoversAndCandidates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	quotes := []struct {
		symbol string
		pct    float64
		volume int64
	}{
		{"AAA", 2.5, 100},
		{"BBB", -1.2, 900},
		{"CCC", 0.4, 500},
		{"DDD", -3.1, 50},
	}
	for _, q := range quotes {
		id := seedCompany(t, s, q.symbol, q.symbol+" Ltd")
		require.NoError(t, s.UpsertQuote(ctx, id, model.Quote{
			CurrentPrice: 100, PercentageChange: q.pct, Volume: q.volume,
		}))
	}
	// a second update replaces the first
	id, err := s.UpsertCompany(ctx, model.Company{Symbol: "CCC", Name: "CCC Ltd", Active: true})
	require.NoError(t, err)
	require.NoError(t, s.UpsertQuote(ctx, id, model.Quote{CurrentPrice: 101, PercentageChange: 1.0, Volume: 600}))

	all, err := s.ListQuotes(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "AAA", all[0].Symbol)

	gainers, err := s.Movers(ctx, MoversGainers, 5)
	require.NoError(t, err)
	require.Len(t, gainers, 2)
	assert.Equal(t, "AAA", gainers[0].Symbol)
	assert.Equal(t, "CCC", gainers[1].Symbol)

	losers, err := s.Movers(ctx, MoversLosers, 1)
	require.NoError(t, err)
	require.Len(t, losers, 1)
	assert.Equal(t, "DDD", losers[0].Symbol)

	_, err = s.Movers(ctx, "sideways", 1)
	assert.Error(t, err)

	cands, err := s.Candidates(ctx, 2)
	require.NoError(t, err)
	require.Len(t, cands, 2)
	assert.Equal(t, "BBB", cands[0].Symbol)
	assert.Equal(t, "CCC", cands[1].Symbol)
	assert.Equal(t, 101.0, cands[1].CurrentPrice)
}

func TestIndices(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertIndex(ctx, model.MarketIndex{Name: "SENSEX", CurrentValue: 61872.99}))
	require.NoError(t, s.UpsertIndex(ctx, model.MarketIndex{Name: "NIFTY 50", CurrentValue: 18456.78}))
	require.NoError(t, s.UpsertIndex(ctx, model.MarketIndex{Name: "NIFTY 50", CurrentValue: 18500, ChangeValue: 43.22}))

	idx, err := s.ListIndices(ctx)
	require.NoError(t, err)
	require.Len(t, idx, 2)
	assert.Equal(t, "NIFTY 50", idx[0].Name)
	assert.Equal(t, 18500.0, idx[0].CurrentValue)
	assert.Equal(t, 43.22, idx[0].ChangeValue)
	assert.False(t, idx[1].LastUpdated.IsZero())
}
