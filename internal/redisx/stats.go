package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/ariefcatur/go-erp-dashboard/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"time"
)

// StatsCache stores dashboard aggregates under a generation counter.
// Invalidate bumps the generation, so every older entry becomes
// unreachable at once and simply expires.
type StatsCache struct {
	RDB KV
	TTL time.Duration
	Log *logrus.Logger
}

func (c *StatsCache) generation(ctx context.Context) (int64, error) {
	n, err := c.RDB.Get(ctx, KeyStatsGeneration).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// Load fills out from the cache and returns the generation it read.
// ok is false on a miss or any redis error; gen is -1 when redis could not
// be read, which makes the following Store a no-op.
func (c *StatsCache) Load(ctx context.Context, name string, out any) (gen int64, ok bool) {
	if c == nil || c.RDB == nil || c.TTL <= 0 {
		return -1, false
	}
	gen, err := c.generation(ctx)
	if err != nil {
		config.LogError(logger(c.Log), "redisx", "StatsCache.Load", name, nil, err)
		return -1, false
	}
	b, err := c.RDB.Get(ctx, fmt.Sprintf(KeyStats, name, gen)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			config.LogError(logger(c.Log), "redisx", "StatsCache.Load", name, nil, err)
		}
		return gen, false
	}
	return gen, json.Unmarshal(b, out) == nil
}

// Store writes v under the generation a previous Load missed on. An
// Invalidate in between leaves the entry unreachable.
func (c *StatsCache) Store(ctx context.Context, name string, gen int64, v any) {
	if c == nil || c.RDB == nil || c.TTL <= 0 || gen < 0 {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		config.LogError(logger(c.Log), "redisx", "StatsCache.Store", name, nil, err)
		return
	}
	if err := c.RDB.Set(ctx, fmt.Sprintf(KeyStats, name, gen), b, c.TTL).Err(); err != nil {
		config.LogError(logger(c.Log), "redisx", "StatsCache.Store", name, nil, err)
	}
}

func (c *StatsCache) Invalidate(ctx context.Context) {
	if c == nil || c.RDB == nil {
		return
	}
	if err := c.RDB.Incr(ctx, KeyStatsGeneration).Err(); err != nil {
		config.LogError(logger(c.Log), "redisx", "StatsCache.Invalidate", "", nil, err)
	}
}
