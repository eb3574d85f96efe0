package kafka

import (
	"context"
	"errors"
	"github.com/ariefcatur/go-erp-dashboard/internal/config"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"strconv"
	"sync"
	"time"
)

// Handler returns nil only when the message is fully processed and its
// offset may be committed.
type Handler func(ctx context.Context, m kafka.Message) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// DeadLetter receives messages that kept failing; *kafka.Writer satisfies it.
type DeadLetter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	r          messageReader
	workers    int
	backoff    time.Duration
	maxBackoff time.Duration
	attempts   int
	dlq        DeadLetter
	log        *logrus.Logger
}

func NewConsumer(brokers []string, group, topic string, workers int, log *logrus.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  group,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return newConsumer(r, workers, log)
}

// NewDeadLetterWriter writes synchronously, so a message is only committed
// once the broker has its dead-letter copy.
func NewDeadLetterWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

func newConsumer(r messageReader, workers int, log *logrus.Logger) *Consumer {
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = config.GetLogger()
	}
	return &Consumer{r: r, workers: workers, backoff: 200 * time.Millisecond, maxBackoff: 5 * time.Second, log: log}
}

// SetDeadLetter moves a message to dlq after it failed attempts times.
// Without a dead letter a failing message is retried until shutdown and its
// partition does not move past it. The consumer closes dlq on exit.
func (c *Consumer) SetDeadLetter(dlq DeadLetter, attempts int) {
	if attempts <= 0 {
		attempts = 1
	}
	c.dlq = dlq
	c.attempts = attempts
}

// Start fetches until ctx is cancelled. Every partition is pinned to one
// worker and handled in offset order, so a commit never passes a message
// that is still running or failed.
func (c *Consumer) Start(ctx context.Context, h Handler) error {
	queues := make([]chan kafka.Message, c.workers)
	var wg sync.WaitGroup
	for i := range queues {
		queues[i] = make(chan kafka.Message, 64)
		wg.Add(1)
		go func(id int, jobs <-chan kafka.Message) {
			defer wg.Done()
			for m := range jobs {
				if !c.handle(ctx, id, h, m) {
					// shutting down; leave the rest uncommitted
					for range jobs {
					}
					return
				}
			}
		}(i, queues[i])
	}
	defer func() {
		for _, q := range queues {
			close(q)
		}
		wg.Wait()
		if err := c.r.Close(); err != nil {
			config.LogError(c.log, "kafka", "Consumer.Start", "close reader", nil, err)
		}
		if c.dlq != nil {
			if err := c.dlq.Close(); err != nil {
				config.LogError(c.log, "kafka", "Consumer.Start", "close dead letter", nil, err)
			}
		}
	}()

	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			// quiet shutdown
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		select {
		case queues[m.Partition%c.workers] <- m:
		case <-ctx.Done():
			return nil
		}
	}
}

// handle runs h until it succeeds or the message is dead-lettered, then
// commits. It reports false when ctx ended first.
func (c *Consumer) handle(ctx context.Context, worker int, h Handler, m kafka.Message) bool {
	wait := c.backoff
	for attempt := 1; ; attempt++ {
		err := h(ctx, m)
		if err == nil {
			break
		}
		config.LogError(c.log, "kafka", "Consumer.handle", m.Topic, logrus.Fields{
			"worker": worker, "partition": m.Partition, "offset": m.Offset, "attempt": attempt,
		}, err)
		if c.dlq != nil && attempt >= c.attempts && c.deadLetter(ctx, m, err) {
			break
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return false
		}
		if wait *= 2; wait > c.maxBackoff {
			wait = c.maxBackoff
		}
	}
	if err := c.r.CommitMessages(ctx, m); err != nil {
		if ctx.Err() != nil {
			return false
		}
		config.LogError(c.log, "kafka", "Consumer.handle", "commit", m.Offset, err)
	}
	return true
}

func (c *Consumer) deadLetter(ctx context.Context, m kafka.Message, cause error) bool {
	headers := append([]kafka.Header{}, m.Headers...)
	headers = append(headers,
		kafka.Header{Key: "x-dlq-topic", Value: []byte(m.Topic)},
		kafka.Header{Key: "x-dlq-partition", Value: []byte(strconv.Itoa(m.Partition))},
		kafka.Header{Key: "x-dlq-offset", Value: []byte(strconv.FormatInt(m.Offset, 10))},
		kafka.Header{Key: "x-dlq-error", Value: []byte(cause.Error())},
	)
	err := c.dlq.WriteMessages(ctx, kafka.Message{Key: m.Key, Value: m.Value, Headers: headers})
	if err != nil {
		config.LogError(c.log, "kafka", "Consumer.deadLetter", m.Topic, m.Offset, err)
		return false
	}
	c.log.WithFields(logrus.Fields{"topic": m.Topic, "partition": m.Partition, "offset": m.Offset}).Warn("message dead-lettered")
	return true
}
