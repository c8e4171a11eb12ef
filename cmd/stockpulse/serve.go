package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"StockPulse/internal/api"
	"StockPulse/internal/notifier"
	"StockPulse/internal/scheduler"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API, WebSocket push and scheduled refreshes",
		RunE:  runServe,
	}
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log.Info().Msg("StockPulse starting...")

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.ensureSeeded(ctx, 90); err != nil {
		log.Warn().Err(err).Msg("initial seed failed")
	}

	hub := api.NewHub(cfg.Server.AllowedOrigins, log.Logger.With().Str("component", "ws").Logger())
	defer hub.Close()

	sched := scheduler.NewScheduler(ctx, a.collector, a.runner, a.cache, a.recorder,
		log.Logger.With().Str("component", "scheduler").Logger())
	sched.Publisher = hub
	sched.Movers = a.store

	if cfg.TelegramEnabled() {
		tn, err := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.DataSource.Proxy,
			log.Logger.With().Str("component", "telegram").Logger())
		if err != nil {
			log.Warn().Err(err).Msg("telegram disabled")
		} else {
			sched.Notifier = tn
			sched.NotifyOnRun = cfg.Telegram.NotifyOnRun
			go tn.StartPolling(ctx, sched.HandleCommand)
			log.Info().Msg("telegram polling started")
		}
	}

	if err := sched.RegisterAll(cfg.Schedule.QuoteCron, cfg.Schedule.PredictionCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	// First batch right away so readers don't wait for the first tick.
	go func() {
		if _, err := sched.RunPredictionsNow(ctx); err != nil {
			log.Error().Err(err).Msg("initial prediction run")
		}
	}()

	gin.SetMode(gin.ReleaseMode)
	srv := &api.Server{
		Store:          a.store,
		Cache:          a.cache,
		Recorder:       a.recorder,
		Refresher:      sched,
		Hub:            hub,
		Gatherer:       a.registry,
		StaleAfter:     cfg.Prediction.StaleAfter,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         log.Logger.With().Str("component", "http").Logger(),
	}
	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("http server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received, stopping...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("StockPulse stopped")
	return nil
}
