package orders

import (
	"context"
	"encoding/json"
	"github.com/ariefcatur/go-erp-dashboard/internal/config"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type Store interface {
	CreateOrderTx(ctx context.Context, in CreateInput) (Order, bool, error)
	Get(ctx context.Context, id string) (Order, error)
	List(ctx context.Context, p ListParams) ([]Order, int, error)
	UpdateStatus(ctx context.Context, actor, id string, to Status) (Order, Status, error)
}

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Idempotency is a fast-path lookup of external id -> order id. The
// database unique key stays the source of truth.
type Idempotency interface {
	Lookup(ctx context.Context, externalID string) (string, bool)
	Remember(ctx context.Context, externalID, orderID string)
}

// Invalidator drops cached dashboard aggregates after a mutation.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

type Service struct {
	Store       Store
	Idem        Idempotency
	Producer    Publisher // TopicOrderCreated
	StatusProd  Publisher // TopicOrderStatusChanged, Producer when nil
	Stats       Invalidator
	ServiceName string
	Log         *logrus.Logger
}

func (s *Service) logger() *logrus.Logger {
	if s.Log != nil {
		return s.Log
	}
	return config.GetLogger()
}

// Place creates an order (or returns the one already created under the
// same external id) and announces it.
func (s *Service) Place(ctx context.Context, in CreateInput, traceID string) (Order, bool, error) {
	if in.ExternalID != "" && s.Idem != nil {
		if id, ok := s.Idem.Lookup(ctx, in.ExternalID); ok {
			if o, err := s.Store.Get(ctx, id); err == nil {
				return o, true, nil
			}
			// stale cache entry, DB decides below
		}
	}

	o, existed, err := s.Store.CreateOrderTx(ctx, in)
	if err != nil {
		return Order{}, false, err
	}
	if in.ExternalID != "" && s.Idem != nil {
		s.Idem.Remember(ctx, in.ExternalID, o.ID)
	}
	if existed {
		return o, true, nil
	}

	if s.Stats != nil {
		s.Stats.Invalidate(ctx)
	}
	s.publish(EventOrderCreated, traceID, o.ID, createdPayload(o))
	return o, false, nil
}

func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, p ListParams) ([]Order, int, error) {
	return s.Store.List(ctx, p)
}

func (s *Service) ChangeStatus(ctx context.Context, actor, id string, to Status, traceID string) (Order, error) {
	o, from, err := s.Store.UpdateStatus(ctx, actor, id, to)
	if err != nil {
		return Order{}, err
	}
	if s.Stats != nil {
		s.Stats.Invalidate(ctx)
	}
	s.publish(EventOrderStatusChanged, traceID, id, OrderStatusChangedPayload{OrderID: id, From: from, To: to, Actor: actor})
	return o, nil
}

func (s *Service) publish(eventType, traceID, orderID string, payload any) {
	p := s.Producer
	if eventType == EventOrderStatusChanged && s.StatusProd != nil {
		p = s.StatusProd
	}
	if p == nil {
		return
	}
	ev, err := NewEnvelope(eventType, s.ServiceName, traceID, orderID, payload)
	if err != nil {
		config.LogError(s.logger(), "orders", "publish", eventType, orderID, err)
		return
	}
	b, err := json.Marshal(ev)
	if err != nil {
		config.LogError(s.logger(), "orders", "publish", eventType, orderID, err)
		return
	}
	p.Publish(PartitionKey(orderID), b,
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
