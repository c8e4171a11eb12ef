package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"StockPulse/internal/cache"
	"StockPulse/internal/calculator"
	"StockPulse/internal/model"
	"StockPulse/internal/store"
)

// predictionsResponse is the read model of the latest batch.
type predictionsResponse struct {
	RunID       string             `json:"runId"`
	Predictions []model.Prediction `json:"predictions"`
	Items       []model.ItemResult `json:"items"`
	GeneratedAt time.Time          `json:"generatedAt"`
	Stale       bool               `json:"stale"`
}

func newPredictionsResponse(b *model.Batch, stale bool) predictionsResponse {
	resp := predictionsResponse{
		RunID:       b.RunID,
		Predictions: b.Predictions,
		Items:       b.Items,
		GeneratedAt: b.FinishedAt,
		Stale:       stale,
	}
	if resp.Predictions == nil {
		resp.Predictions = []model.Prediction{}
	}
	if resp.Items == nil {
		resp.Items = []model.ItemResult{}
	}
	return resp
}

func queryInt(c *gin.Context, key string, def, max int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

func (s *Server) health(c *gin.Context) {
	if err := s.Store.DB().PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listCompanies(c *gin.Context) {
	companies, err := s.Store.SearchCompanies(c.Request.Context(), c.Query("q"), queryInt(c, "limit", 50, 500))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if companies == nil {
		companies = []model.Company{}
	}
	c.JSON(http.StatusOK, gin.H{"data": companies})
}

func (s *Server) listQuotes(c *gin.Context) {
	quotes, err := s.Store.ListQuotes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if quotes == nil {
		quotes = []model.Quote{}
	}
	c.JSON(http.StatusOK, gin.H{"data": quotes})
}

func (s *Server) movers(c *gin.Context) {
	kind := c.DefaultQuery("kind", store.MoversGainers)
	switch kind {
	case store.MoversGainers, store.MoversLosers, store.MoversActive:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be gainers, losers or active"})
		return
	}
	quotes, err := s.Store.Movers(c.Request.Context(), kind, queryInt(c, "limit", 5, 50))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if quotes == nil {
		quotes = []model.Quote{}
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind, "data": quotes})
}

func (s *Server) listIndices(c *gin.Context) {
	indices, err := s.Store.ListIndices(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if indices == nil {
		indices = []model.MarketIndex{}
	}
	c.JSON(http.StatusOK, gin.H{"data": indices})
}

func (s *Server) stockHistory(c *gin.Context) {
	ctx := c.Request.Context()
	co, err := s.Store.CompanyBySymbol(ctx, c.Param("symbol"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown symbol"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	days := queryInt(c, "days", 30, 730)
	bars, err := s.Store.Bars(ctx, co.Symbol, max(days, calculator.TradingDaysPerYear))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{"symbol": co.Symbol, "name": co.Name}
	if high, low, err := calculator.PriceRange(bars, calculator.TradingDaysPerYear); err == nil {
		last := bars[len(bars)-1].Close
		pos, _ := calculator.RangePosition(last, high, low)
		resp["range52w"] = gin.H{"high": high, "low": low, "position": pos}
	}
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	if bars == nil {
		bars = []model.OHLCV{}
	}
	resp["data"] = bars
	c.JSON(http.StatusOK, resp)
}

func (s *Server) latestPredictions(c *gin.Context) {
	b, err := s.Cache.Latest(c.Request.Context())
	if errors.Is(err, cache.ErrMiss) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no prediction run has completed yet"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	stale := s.StaleAfter > 0 && b.Age(time.Now()) > s.StaleAfter
	c.JSON(http.StatusOK, newPredictionsResponse(b, stale))
}

func (s *Server) refreshPredictions(c *gin.Context) {
	if s.Refresher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "refresh is not available"})
		return
	}
	b, err := s.Refresher.RunPredictionsNow(c.Request.Context())
	if err != nil {
		s.Logger.Error().Err(err).Msg("manual prediction run")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, newPredictionsResponse(b, false))
}

func (s *Server) recentRuns(c *gin.Context) {
	runs, err := s.Recorder.RecentRuns(c.Request.Context(), queryInt(c, "limit", 20, 200))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": runs})
}
