package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/ariefcatur/go-tenant-orders.git/internal/errs"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher writes events to a single named queue. Writes are synchronous:
// a nil return means the broker acked the message, so the caller may report
// the event as accepted downstream.
type Publisher struct {
	w   *kafka.Writer
	log *zap.Logger
}

func NewPublisher(brokers []string, queue string, log *zap.Logger) *Publisher {
	return &Publisher{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  queue,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true, // declare-if-absent
		},
		log: log,
	}
}

func (p *Publisher) Publish(ctx context.Context, key, value []byte) error {
	err := p.w.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
		Time:  time.Now(),
	})
	if err != nil {
		p.log.Error("publish failed",
			zap.String("queue", p.w.Topic),
			zap.Error(err))
		return fmt.Errorf("%w: %v", errs.ErrBrokerUnavailable, err)
	}
	return nil
}

func (p *Publisher) Close() error { return p.w.Close() }
