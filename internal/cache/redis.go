package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"StockPulse/internal/model"
)

const (
	latestKey = "stockpulse:predictions:latest"
	// Long enough to survive a scheduler outage; staleness is judged by readers.
	latestTTL = 24 * time.Hour
)

// RedisCache shares the latest batch between processes.
type RedisCache struct {
	rdb *redis.Client
}

// NewRedisCache connects to addr and pings the server.
func NewRedisCache(ctx context.Context, addr, password string, db int) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	log.Info().Str("addr", addr).Msg("redis cache connected")
	return &RedisCache{rdb: rdb}, nil
}

func (c *RedisCache) Store(ctx context.Context, b *model.Batch) error {
	if b == nil {
		return fmt.Errorf("store nil batch")
	}
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}
	if err := c.rdb.Set(ctx, latestKey, data, latestTTL).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCache) Latest(ctx context.Context) (*model.Batch, error) {
	data, err := c.rdb.Get(ctx, latestKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var b model.Batch
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}
	return &b, nil
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
