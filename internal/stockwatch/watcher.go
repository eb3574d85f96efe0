package stockwatch

import (
	"context"
	"github.com/ariefcatur/go-erp-dashboard/internal/audit"
	"github.com/ariefcatur/go-erp-dashboard/internal/config"
	"github.com/ariefcatur/go-erp-dashboard/internal/inventory"
	kafkax "github.com/ariefcatur/go-erp-dashboard/internal/kafka"
	"github.com/ariefcatur/go-erp-dashboard/internal/orders"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type StockReader interface {
	Get(ctx context.Context, id string) (inventory.SKU, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, userID, action, entityType, entityID string, metadata any) error
}

// Claimer is a redis SETNX guard (see redisx.Dedup).
type Claimer interface {
	Claim(ctx context.Context, id string) (bool, error)
	Release(ctx context.Context, id string) error
}

// Watcher turns OrderCreated events into LOW_STOCK_ALERT audit entries.
type Watcher struct {
	Stock     StockReader
	Audit     AuditRecorder
	Events    Claimer // per event id
	Alerts    Claimer // per sku, one alert per window
	Threshold int
	Log       *logrus.Logger
}

type alert struct {
	SKUCode   string          `json:"skuCode"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Threshold int             `json:"threshold"`
	Level     inventory.Level `json:"level"`
	OrderID   string          `json:"orderId"`
}

func (w *Watcher) logger() *logrus.Logger {
	if w.Log != nil {
		return w.Log
	}
	return config.GetLogger()
}

// HandleOrderCreated is installed as the consumer handler.
func (w *Watcher) HandleOrderCreated(ctx context.Context, m kafkago.Message) error {
	if t := kafkax.Header(m, "x-event-type"); t != "" && t != orders.EventOrderCreated {
		return nil
	}
	var env orders.Envelope
	if err := kafkax.UnmarshalEnvelope(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderCreated {
		return nil
	}

	ok, err := w.Events.Claim(ctx, env.EventID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err := w.check(ctx, env); err != nil {
		// let a redelivery try again
		if rerr := w.Events.Release(ctx, env.EventID); rerr != nil {
			config.LogError(w.logger(), "stockwatch", "HandleOrderCreated", "release", env.EventID, rerr)
		}
		return err
	}
	return nil
}

func (w *Watcher) check(ctx context.Context, env orders.Envelope) error {
	p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
	if err != nil {
		return err
	}
	for _, it := range p.Items {
		sku, err := w.Stock.Get(ctx, it.SKUID)
		if err != nil {
			return err
		}
		if sku.Quantity > w.Threshold {
			continue
		}
		first, err := w.Alerts.Claim(ctx, sku.ID)
		if err != nil {
			return err
		}
		if !first {
			continue
		}
		a := alert{
			SKUCode:   sku.Code,
			Name:      sku.Name,
			Quantity:  sku.Quantity,
			Threshold: w.Threshold,
			Level:     inventory.Classify(sku.Quantity, w.Threshold),
			OrderID:   p.OrderID,
		}
		if err := w.Audit.Record(ctx, audit.SystemUser, audit.ActionLowStockAlert, audit.EntitySKU, sku.ID, a); err != nil {
			_ = w.Alerts.Release(ctx, sku.ID)
			return err
		}
		w.logger().WithFields(logrus.Fields{
			"sku": sku.Code, "quantity": sku.Quantity, "order_id": p.OrderID, "trace_id": env.TraceID,
		}).Warn("low stock")
	}
	return nil
}
