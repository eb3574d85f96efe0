package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

type memWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	closed bool
}

func (w *memWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *memWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func TestProducerFlushesOnShutdown(t *testing.T) {
	w := &memWriter{}
	p := newProducer(w, "erp.order.created", 16, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)
	p.Publish([]byte("o-1"), []byte(`{}`), kafka.Header{Key: "x-event-type", Value: []byte("OrderCreated")})
	p.Publish([]byte("o-2"), []byte(`{}`))
	cancel()
	p.WaitClosed()

	w.mu.Lock()
	defer w.mu.Unlock()
	require.Len(t, w.msgs, 2)
	assert.Equal(t, "o-1", string(w.msgs[0].Key))
	assert.Equal(t, "OrderCreated", Header(w.msgs[0], "x-event-type"))
	assert.True(t, w.closed)

	// publishing after shutdown must not block
	p.Publish([]byte("late"), nil)
}

type chanReader struct {
	msgs      chan kafka.Message
	mu        sync.Mutex
	committed []int64
	closed    bool
}

func (r *chanReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *chanReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *chanReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *chanReader) commits() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

func run(c *Consumer, h Handler) (cancel func() error) {
	ctx, stop := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- c.Start(ctx, h) }()
	return func() error {
		stop()
		return <-errc
	}
}

func TestConsumerNeverCommitsPastRunningMessage(t *testing.T) {
	r := &chanReader{msgs: make(chan kafka.Message, 4)}
	c := newConsumer(r, 2, quietLogger())

	release := make(chan struct{})
	started := make(chan int64, 4)
	h := func(ctx context.Context, m kafka.Message) error {
		started <- m.Offset
		if m.Offset == 1 {
			select {
			case <-release:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}
	stop := run(c, h)

	r.msgs <- kafka.Message{Partition: 0, Offset: 1}
	r.msgs <- kafka.Message{Partition: 0, Offset: 2}

	assert.Equal(t, int64(1), <-started)
	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, r.commits(), "offset 2 waits behind offset 1")
	assert.Len(t, started, 0)

	close(release)
	require.Eventually(t, func() bool { return len(r.commits()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int64{1, 2}, r.commits())

	require.NoError(t, stop())
	assert.True(t, r.closed)
}

func TestConsumerPartitionsRunIndependently(t *testing.T) {
	r := &chanReader{msgs: make(chan kafka.Message, 4)}
	c := newConsumer(r, 2, quietLogger())

	release := make(chan struct{})
	h := func(ctx context.Context, m kafka.Message) error {
		if m.Partition == 0 {
			select {
			case <-release:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}
	stop := run(c, h)

	r.msgs <- kafka.Message{Partition: 0, Offset: 1}
	r.msgs <- kafka.Message{Partition: 1, Offset: 7}

	require.Eventually(t, func() bool { return len(r.commits()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []int64{7}, r.commits())

	close(release)
	require.Eventually(t, func() bool { return len(r.commits()) == 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, stop())
}

func TestConsumerDeadLettersBeforeCommitting(t *testing.T) {
	r := &chanReader{msgs: make(chan kafka.Message, 4)}
	c := newConsumer(r, 1, quietLogger())
	c.backoff = time.Millisecond
	dlq := &memWriter{}
	c.SetDeadLetter(dlq, 3)

	var mu sync.Mutex
	calls := map[int64]int{}
	h := func(_ context.Context, m kafka.Message) error {
		mu.Lock()
		defer mu.Unlock()
		calls[m.Offset]++
		if m.Offset == 2 {
			return errors.New("boom")
		}
		return nil
	}
	stop := run(c, h)

	r.msgs <- kafka.Message{Topic: "erp.order.created", Offset: 1}
	r.msgs <- kafka.Message{Topic: "erp.order.created", Offset: 2, Key: []byte("o-2")}
	r.msgs <- kafka.Message{Topic: "erp.order.created", Offset: 3}

	require.Eventually(t, func() bool { return len(r.commits()) == 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, stop())

	assert.Equal(t, []int64{1, 2, 3}, r.commits())
	mu.Lock()
	assert.Equal(t, 3, calls[2])
	mu.Unlock()

	dlq.mu.Lock()
	defer dlq.mu.Unlock()
	require.Len(t, dlq.msgs, 1)
	assert.Equal(t, "o-2", string(dlq.msgs[0].Key))
	assert.Equal(t, "boom", Header(dlq.msgs[0], "x-dlq-error"))
	assert.Equal(t, "2", Header(dlq.msgs[0], "x-dlq-offset"))
	assert.True(t, dlq.closed)
}

func TestConsumerRetriesWithoutDeadLetter(t *testing.T) {
	r := &chanReader{msgs: make(chan kafka.Message, 4)}
	c := newConsumer(r, 1, quietLogger())
	c.backoff = time.Millisecond
	c.maxBackoff = 2 * time.Millisecond

	var mu sync.Mutex
	attempts := 0
	h := func(_ context.Context, m kafka.Message) error {
		if m.Offset == 1 {
			mu.Lock()
			defer mu.Unlock()
			attempts++
			return errors.New("db down")
		}
		return nil
	}
	stop := run(c, h)

	r.msgs <- kafka.Message{Offset: 1}
	r.msgs <- kafka.Message{Offset: 2}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return attempts >= 3
	}, time.Second, time.Millisecond)
	require.NoError(t, stop())
	assert.Empty(t, r.commits(), "a failing message holds its partition")
}

type sample struct {
	OrderID string `json:"order_id"`
}

func TestUnwrapPayload(t *testing.T) {
	var env struct {
		Payload json.RawMessage `json:"payload"`
	}
	require.NoError(t, UnmarshalEnvelope([]byte(`{"payload":{"order_id":"o-7"}}`), &env))
	s, err := UnwrapPayload[sample](env.Payload)
	require.NoError(t, err)
	assert.Equal(t, "o-7", s.OrderID)

	_, err = UnwrapPayload[sample](json.RawMessage(`[`))
	assert.Error(t, err)
	assert.Error(t, UnmarshalEnvelope([]byte(`nope`), &env))
}
