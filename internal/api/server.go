// Package api serves market data and the latest predictions over HTTP and
// WebSocket.
package api

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"StockPulse/internal/cache"
	"StockPulse/internal/model"
	"StockPulse/internal/recorder"
	"StockPulse/internal/store"
)

// Refresher triggers an out-of-schedule prediction run.
type Refresher interface {
	RunPredictionsNow(ctx context.Context) (*model.Batch, error)
}

// Server holds the handler dependencies.
type Server struct {
	Store          *store.Store
	Cache          cache.Cache
	Recorder       recorder.Recorder
	Refresher      Refresher
	Hub            *Hub
	Gatherer       prometheus.Gatherer
	StaleAfter     time.Duration
	AllowedOrigins []string
	Logger         zerolog.Logger
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	if len(s.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     s.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/healthz", s.health)
	if s.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{})))
	}
	if s.Hub != nil {
		r.GET("/ws", func(c *gin.Context) { s.Hub.ServeWS(c.Writer, c.Request) })
	}

	api := r.Group("/api")
	{
		api.GET("/companies", s.listCompanies)
		api.GET("/quotes", s.listQuotes)
		api.GET("/movers", s.movers)
		api.GET("/indices", s.listIndices)
		api.GET("/stocks/:symbol/history", s.stockHistory)

		api.GET("/predictions", s.latestPredictions)
		api.POST("/predictions/refresh", s.refreshPredictions)
		api.GET("/predictions/runs", s.recentRuns)
	}
	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		ev := s.Logger.Debug()
		if c.Writer.Status() >= 500 {
			ev = s.Logger.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("http request")
	}
}
