package orders

import (
	"encoding/json"
	"github.com/google/uuid"
	"time"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

// NewEnvelope wraps payload as a v1 event correlated to orderID.
func NewEnvelope(eventType, producer, traceID, orderID string, payload any) (Envelope, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		TraceID:       traceID,
		CorrelationID: orderID,
		Payload:       b,
	}, nil
}

type ItemQty struct {
	SKUID string `json:"sku_id"`
	Qty   int    `json:"qty"`
}

type OrderCreatedPayload struct {
	OrderID    string    `json:"order_id"`
	UserID     string    `json:"user_id"`
	ClientID   string    `json:"client_id,omitempty"`
	Items      []ItemQty `json:"items"`
	TotalSales string    `json:"total_sales"`
	TotalCost  string    `json:"total_cost"`
}

type OrderStatusChangedPayload struct {
	OrderID string `json:"order_id"`
	From    Status `json:"from"`
	To      Status `json:"to"`
	Actor   string `json:"actor"`
}

func createdPayload(o Order) OrderCreatedPayload {
	items := make([]ItemQty, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, ItemQty{SKUID: it.SKUID, Qty: it.Quantity})
	}
	p := OrderCreatedPayload{
		OrderID:    o.ID,
		UserID:     o.UserID,
		Items:      items,
		TotalSales: o.TotalSales.StringFixed(2),
		TotalCost:  o.TotalCost.StringFixed(2),
	}
	if o.ClientID != nil {
		p.ClientID = *o.ClientID
	}
	return p
}
