package kafka

import (
	"context"
	"github.com/ariefcatur/go-erp-dashboard/internal/config"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"time"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer buffers messages in an inbox drained by one goroutine, so
// request handlers never wait on the broker.
type Producer struct {
	topic string
	w     messageWriter
	inbox chan kafka.Message
	done  chan struct{}
	log   *logrus.Logger
}

func NewProducer(brokers []string, topic string, buf int, log *logrus.Logger) *Producer {
	if log == nil {
		log = config.GetLogger()
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(msgs []kafka.Message, err error) {
			if err != nil {
				config.LogError(log, "kafka", "Producer.Completion", topic, len(msgs), err)
			}
		},
	}
	return newProducer(w, topic, buf, log)
}

func newProducer(w messageWriter, topic string, buf int, log *logrus.Logger) *Producer {
	if buf <= 0 {
		buf = 1
	}
	return &Producer{
		topic: topic,
		w:     w,
		inbox: make(chan kafka.Message, buf),
		done:  make(chan struct{}),
		log:   log,
	}
}

// Start runs the writer loop until ctx is cancelled, then flushes what is
// still buffered and closes the writer.
func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer close(p.done)
		for {
			select {
			case <-ctx.Done():
				p.drain()
				if err := p.w.Close(); err != nil {
					config.LogError(p.log, "kafka", "Producer.Start", p.topic, nil, err)
				}
				return
			case m := <-p.inbox:
				p.write(m)
			}
		}
	}()
}

func (p *Producer) drain() {
	for {
		select {
		case m := <-p.inbox:
			p.write(m)
		default:
			return
		}
	}
}

func (p *Producer) write(m kafka.Message) {
	if err := p.w.WriteMessages(context.Background(), m); err != nil {
		config.LogError(p.log, "kafka", "Producer.write", p.topic, string(m.Key), err)
	}
}

// Publish enqueues a message. After shutdown messages are dropped with a
// warning instead of blocking the caller.
func (p *Producer) Publish(key, value []byte, headers ...kafka.Header) {
	m := kafka.Message{
		Key:     key,
		Value:   value,
		Time:    time.Now(),
		Headers: headers,
	}
	select {
	case <-p.done:
		p.log.WithFields(logrus.Fields{"topic": p.topic, "key": string(key)}).Warn("producer closed, message dropped")
	case p.inbox <- m:
	}
}

// WaitClosed blocks until the writer loop has flushed and exited.
func (p *Producer) WaitClosed() { <-p.done }
