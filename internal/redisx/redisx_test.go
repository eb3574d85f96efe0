package redisx

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memKV is an in-memory KV; expirations are recorded, not enforced.
type memKV struct {
	mu   sync.Mutex
	data map[string]string
	ttl  map[string]time.Duration
	down bool
}

func newMemKV() *memKV {
	return &memKV{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

var errDown = errors.New("connection refused")

func (m *memKV) Get(_ context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return redis.NewStringResult("", errDown)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memKV) Set(_ context.Context, key string, value any, exp time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return redis.NewStatusResult("", errDown)
	}
	m.data[key] = stringify(value)
	m.ttl[key] = exp
	return redis.NewStatusResult("OK", nil)
}

func (m *memKV) SetNX(_ context.Context, key string, value any, exp time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = stringify(value)
	m.ttl[key] = exp
	return redis.NewBoolResult(true, nil)
}

func (m *memKV) Incr(_ context.Context, key string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, _ := strconv.ParseInt(m.data[key], 10, 64)
	n++
	m.data[key] = strconv.FormatInt(n, 10)
	return redis.NewIntResult(n, nil)
}

func (m *memKV) Del(_ context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func stringify(v any) string {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func quiet() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestOrderIdempotency(t *testing.T) {
	kv := newMemKV()
	idem := &OrderIdempotency{RDB: kv, Log: quiet()}
	ctx := context.Background()

	_, ok := idem.Lookup(ctx, "ext-1")
	assert.False(t, ok)

	idem.Remember(ctx, "ext-1", "ord-1")
	id, ok := idem.Lookup(ctx, "ext-1")
	require.True(t, ok)
	assert.Equal(t, "ord-1", id)
	assert.Equal(t, TTLIdempotency, kv.ttl["idem:order:create:ext-1"])

	kv.down = true
	_, ok = idem.Lookup(ctx, "ext-1")
	assert.False(t, ok, "outage degrades to a miss")
}

type snapshot struct {
	Revenue string `json:"revenue"`
}

func TestStatsCacheGenerations(t *testing.T) {
	kv := newMemKV()
	c := &StatsCache{RDB: kv, TTL: time.Minute, Log: quiet()}
	ctx := context.Background()

	var got snapshot
	gen, ok := c.Load(ctx, "stats", &got)
	assert.False(t, ok)
	assert.Equal(t, int64(0), gen)

	c.Store(ctx, "stats", gen, snapshot{Revenue: "10.00"})
	_, ok = c.Load(ctx, "stats", &got)
	require.True(t, ok)
	assert.Equal(t, "10.00", got.Revenue)

	c.Invalidate(ctx)
	gen, ok = c.Load(ctx, "stats", &got)
	assert.False(t, ok, "old generation is unreachable")
	assert.Equal(t, int64(1), gen)

	c.Store(ctx, "stats", gen, snapshot{Revenue: "12.00"})
	_, ok = c.Load(ctx, "stats", &got)
	require.True(t, ok)
	assert.Equal(t, "12.00", got.Revenue)
	assert.Contains(t, kv.data, "dash:stats:1")
}

func TestStatsCacheInvalidateBetweenMissAndStore(t *testing.T) {
	kv := newMemKV()
	c := &StatsCache{RDB: kv, TTL: time.Minute, Log: quiet()}
	ctx := context.Background()

	var got snapshot
	gen, ok := c.Load(ctx, "stats", &got)
	require.False(t, ok)

	// an order lands while the aggregate is being computed
	c.Invalidate(ctx)
	c.Store(ctx, "stats", gen, snapshot{Revenue: "stale"})

	_, ok = c.Load(ctx, "stats", &got)
	assert.False(t, ok, "aggregate computed before the invalidation is never served")
	assert.Contains(t, kv.data, "dash:stats:0")
	assert.NotContains(t, kv.data, "dash:stats:1")
}

func TestStatsCacheDisabled(t *testing.T) {
	kv := newMemKV()
	c := &StatsCache{RDB: kv, TTL: 0}
	c.Store(context.Background(), "stats", 0, snapshot{Revenue: "1"})
	assert.Empty(t, kv.data)

	on := &StatsCache{RDB: kv, TTL: time.Minute}
	on.Store(context.Background(), "stats", -1, snapshot{Revenue: "1"})
	assert.Empty(t, kv.data, "unknown generation is not stored")

	var nilCache *StatsCache
	nilCache.Invalidate(context.Background())
	gen, ok := nilCache.Load(context.Background(), "stats", &snapshot{})
	assert.False(t, ok)
	assert.Equal(t, int64(-1), gen)
}

func TestDedup(t *testing.T) {
	kv := newMemKV()
	d := &Dedup{RDB: kv, Service: "stockwatch"}
	ctx := context.Background()

	ok, err := d.Claim(ctx, "ev-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.Claim(ctx, "ev-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, d.Release(ctx, "ev-1"))
	ok, err = d.Claim(ctx, "ev-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, TTLDedup, kv.ttl["dedup:stockwatch:ev-1"])
}
