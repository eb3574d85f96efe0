package stockwatch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ariefcatur/go-erp-dashboard/internal/audit"
	"github.com/ariefcatur/go-erp-dashboard/internal/inventory"
	"github.com/ariefcatur/go-erp-dashboard/internal/orders"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stockMap map[string]inventory.SKU

func (s stockMap) Get(_ context.Context, id string) (inventory.SKU, error) {
	sku, ok := s[id]
	if !ok {
		return inventory.SKU{}, inventory.ErrNotFound
	}
	return sku, nil
}

type recorded struct {
	user, action, entity, id string
	meta                     any
}

type memAudit struct{ entries []recorded }

func (m *memAudit) Record(_ context.Context, userID, action, entityType, entityID string, metadata any) error {
	m.entries = append(m.entries, recorded{userID, action, entityType, entityID, metadata})
	return nil
}

type memClaims map[string]bool

func (c memClaims) Claim(_ context.Context, id string) (bool, error) {
	if c[id] {
		return false, nil
	}
	c[id] = true
	return true, nil
}

func (c memClaims) Release(_ context.Context, id string) error {
	delete(c, id)
	return nil
}

func newWatcher(stock stockMap) (*Watcher, *memAudit, memClaims) {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	a := &memAudit{}
	events := memClaims{}
	return &Watcher{Stock: stock, Audit: a, Events: events, Alerts: memClaims{}, Threshold: 15, Log: l}, a, events
}

func message(t *testing.T, eventType string, p orders.OrderCreatedPayload) kafkago.Message {
	t.Helper()
	env, err := orders.NewEnvelope(eventType, "erp-api", "trace", p.OrderID, p)
	require.NoError(t, err)
	b, err := json.Marshal(env)
	require.NoError(t, err)
	return kafkago.Message{Value: b}
}

func TestAlertsOnlyLowSKUsOnce(t *testing.T) {
	w, a, _ := newWatcher(stockMap{
		"s1": {ID: "s1", Code: "SEN-001", Name: "Quantum Sensor", Quantity: 4},
		"s2": {ID: "s2", Code: "ACT-002", Name: "Servo Actuator", Quantity: 80},
		"s3": {ID: "s3", Code: "PWR-003", Name: "Fusion Cell", Quantity: 0},
	})
	ctx := context.Background()

	p := orders.OrderCreatedPayload{OrderID: "o-1", Items: []orders.ItemQty{{SKUID: "s1", Qty: 1}, {SKUID: "s2", Qty: 1}, {SKUID: "s3", Qty: 2}}}
	require.NoError(t, w.HandleOrderCreated(ctx, message(t, orders.EventOrderCreated, p)))

	require.Len(t, a.entries, 2)
	assert.Equal(t, audit.SystemUser, a.entries[0].user)
	assert.Equal(t, audit.ActionLowStockAlert, a.entries[0].action)
	assert.Equal(t, "s1", a.entries[0].id)
	assert.Equal(t, inventory.LevelLow, a.entries[0].meta.(alert).Level)
	assert.Equal(t, inventory.LevelOutOfStock, a.entries[1].meta.(alert).Level)

	// a second order inside the window raises nothing new
	p.OrderID = "o-2"
	require.NoError(t, w.HandleOrderCreated(ctx, message(t, orders.EventOrderCreated, p)))
	assert.Len(t, a.entries, 2)
}

func TestDuplicateEventIsSkipped(t *testing.T) {
	w, a, _ := newWatcher(stockMap{"s1": {ID: "s1", Quantity: 1}})
	m := message(t, orders.EventOrderCreated, orders.OrderCreatedPayload{OrderID: "o-1", Items: []orders.ItemQty{{SKUID: "s1", Qty: 1}}})

	require.NoError(t, w.HandleOrderCreated(context.Background(), m))
	w.Alerts = memClaims{}
	require.NoError(t, w.HandleOrderCreated(context.Background(), m))
	assert.Len(t, a.entries, 1)
}

func TestFailureReleasesEventClaim(t *testing.T) {
	w, a, events := newWatcher(stockMap{})
	m := message(t, orders.EventOrderCreated, orders.OrderCreatedPayload{OrderID: "o-1", Items: []orders.ItemQty{{SKUID: "gone", Qty: 1}}})

	err := w.HandleOrderCreated(context.Background(), m)
	assert.True(t, errors.Is(err, inventory.ErrNotFound))
	assert.Empty(t, events)
	assert.Empty(t, a.entries)
}

func TestIgnoresOtherEvents(t *testing.T) {
	w, a, events := newWatcher(stockMap{})
	m := message(t, orders.EventOrderStatusChanged, orders.OrderCreatedPayload{OrderID: "o-1"})
	require.NoError(t, w.HandleOrderCreated(context.Background(), m))
	assert.Empty(t, events)
	assert.Empty(t, a.entries)

	assert.Error(t, w.HandleOrderCreated(context.Background(), kafkago.Message{Value: []byte("{")}))
}

func TestHeaderSkipsBeforeDecoding(t *testing.T) {
	w, a, _ := newWatcher(stockMap{})
	m := kafkago.Message{
		Value:   []byte("not json"),
		Headers: []kafkago.Header{{Key: "x-event-type", Value: []byte(orders.EventOrderStatusChanged)}},
	}
	require.NoError(t, w.HandleOrderCreated(context.Background(), m))
	assert.Empty(t, a.entries)
}
