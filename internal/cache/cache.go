// Package cache holds the most recent prediction batch so readers never wait
// on a run.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"StockPulse/internal/model"
)

// ErrMiss is returned by Latest before any batch has been stored.
var ErrMiss = errors.New("cache miss")

// Cache keeps exactly one batch; Store replaces whatever was there.
type Cache interface {
	Store(ctx context.Context, b *model.Batch) error
	Latest(ctx context.Context) (*model.Batch, error)
}

// MemoryCache is a process-local Cache. Batches are kept serialized so callers
// can't mutate the cached copy.
type MemoryCache struct {
	mu   sync.RWMutex
	data []byte
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (c *MemoryCache) Store(_ context.Context, b *model.Batch) error {
	if b == nil {
		return fmt.Errorf("store nil batch")
	}
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}
	c.mu.Lock()
	c.data = data
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Latest(_ context.Context) (*model.Batch, error) {
	c.mu.RLock()
	data := c.data
	c.mu.RUnlock()
	if len(data) == 0 {
		return nil, ErrMiss
	}
	var b model.Batch
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}
	return &b, nil
}
