// Package config loads StockPulse settings from YAML, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	DataSource struct {
		Provider          string  `yaml:"provider"`
		Proxy             string  `yaml:"proxy"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		Seed              int64   `yaml:"seed"`
	} `yaml:"data_source"`
	Schedule struct {
		QuoteCron      string `yaml:"quote_cron"`
		PredictionCron string `yaml:"prediction_cron"`
	} `yaml:"schedule"`
	Prediction struct {
		Candidates   int           `yaml:"candidates"`
		HistoryDepth int           `yaml:"history_depth"`
		Workers      int           `yaml:"workers"`
		StaleAfter   time.Duration `yaml:"stale_after"`
	} `yaml:"prediction"`
	Telegram struct {
		BotToken    string `yaml:"bot_token"`
		ChatID      string `yaml:"chat_id"`
		NotifyOnRun bool   `yaml:"notify_on_run"`
	} `yaml:"telegram"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Providers accepted in data_source.provider.
const (
	ProviderSimulated = "simulated"
	ProviderYahoo     = "yahoo"
)

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	// .env never overrides variables already set in the process.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString(&c.Server.Addr, "SERVER_ADDR")
	setString(&c.Database.Driver, "DATABASE_DRIVER")
	setString(&c.Database.DSN, "DATABASE_DSN")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.DataSource.Provider, "DATA_PROVIDER")
	setString(&c.DataSource.Proxy, "HTTPS_PROXY")
	setString(&c.Schedule.QuoteCron, "QUOTE_CRON")
	setString(&c.Schedule.PredictionCron, "PREDICTION_CRON")
	setString(&c.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	setString(&c.Telegram.ChatID, "TELEGRAM_CHAT_ID")
	setString(&c.Log.Level, "LOG_LEVEL")

	if v := os.Getenv("PREDICTION_CANDIDATES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Prediction.Candidates = n
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.DSN == "" && c.Database.Driver == "sqlite" {
		c.Database.DSN = "data/stockpulse.db"
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = ProviderSimulated
	}
	if c.DataSource.RequestsPerSecond == 0 {
		c.DataSource.RequestsPerSecond = 2
	}
	if c.Schedule.QuoteCron == "" {
		c.Schedule.QuoteCron = "0 */5 * * * *"
	}
	if c.Schedule.PredictionCron == "" {
		c.Schedule.PredictionCron = "30 */5 * * * *"
	}
	if c.Prediction.Candidates == 0 {
		c.Prediction.Candidates = 5
	}
	if c.Prediction.HistoryDepth == 0 {
		c.Prediction.HistoryDepth = 50
	}
	if c.Prediction.Workers == 0 {
		c.Prediction.Workers = 4
	}
	if c.Prediction.StaleAfter == 0 {
		c.Prediction.StaleAfter = 3 * time.Minute
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// Validate checks that all settings are usable.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	switch c.DataSource.Provider {
	case ProviderSimulated, ProviderYahoo:
	default:
		return fmt.Errorf("data_source.provider must be simulated or yahoo, got %q", c.DataSource.Provider)
	}
	if c.DataSource.RequestsPerSecond < 0 {
		return fmt.Errorf("data_source.requests_per_second must not be negative")
	}
	if c.Prediction.Candidates <= 0 {
		return fmt.Errorf("prediction.candidates must be positive")
	}
	if c.Prediction.HistoryDepth <= 0 {
		return fmt.Errorf("prediction.history_depth must be positive")
	}
	if c.Prediction.Workers <= 0 {
		return fmt.Errorf("prediction.workers must be positive")
	}
	if c.Prediction.StaleAfter < 0 {
		return fmt.Errorf("prediction.stale_after must not be negative")
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when telegram.bot_token is set")
	}
	if c.Telegram.NotifyOnRun && c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.notify_on_run needs telegram.bot_token")
	}
	return nil
}

// TelegramEnabled reports whether a bot is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
