package redisx

import (
	"context"
	"errors"
	"fmt"
	"github.com/ariefcatur/go-erp-dashboard/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// OrderIdempotency maps an Idempotency-Key to the order it created. Redis
// is only a shortcut; a miss or an outage falls through to the database.
type OrderIdempotency struct {
	RDB KV
	Log *logrus.Logger
}

func (o *OrderIdempotency) Lookup(ctx context.Context, externalID string) (string, bool) {
	id, err := o.RDB.Get(ctx, fmt.Sprintf(KeyIdemOrderCreate, externalID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			config.LogError(logger(o.Log), "redisx", "OrderIdempotency.Lookup", externalID, nil, err)
		}
		return "", false
	}
	return id, id != ""
}

func (o *OrderIdempotency) Remember(ctx context.Context, externalID, orderID string) {
	key := fmt.Sprintf(KeyIdemOrderCreate, externalID)
	if err := o.RDB.Set(ctx, key, orderID, TTLIdempotency).Err(); err != nil {
		config.LogError(logger(o.Log), "redisx", "OrderIdempotency.Remember", externalID, orderID, err)
	}
}

func logger(l *logrus.Logger) *logrus.Logger {
	if l != nil {
		return l
	}
	return config.GetLogger()
}
