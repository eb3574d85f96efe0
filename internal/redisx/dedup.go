package redisx

import (
	"context"
	"fmt"
	"time"
)

// Dedup guards at-least-once consumers against processing an event twice.
// TTL is the dedup window, TTLDedup when zero.
type Dedup struct {
	RDB     KV
	Service string
	TTL     time.Duration
}

func (d *Dedup) ttl() time.Duration {
	if d.TTL > 0 {
		return d.TTL
	}
	return TTLDedup
}

// Claim marks id as being processed. false means another delivery already
// claimed it.
func (d *Dedup) Claim(ctx context.Context, id string) (bool, error) {
	return d.RDB.SetNX(ctx, fmt.Sprintf(KeyDedup, d.Service, id), 1, d.ttl()).Result()
}

// Release undoes a claim so a failed delivery can be retried.
func (d *Dedup) Release(ctx context.Context, id string) error {
	return d.RDB.Del(ctx, fmt.Sprintf(KeyDedup, d.Service, id)).Err()
}
