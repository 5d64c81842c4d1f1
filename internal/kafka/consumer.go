package kafka

import (
	"context"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Handler processes one delivered message. A nil return acknowledges the
// message (committed, gone for good). A non-nil return drops it: the offset
// is still committed, so the message is NOT retried and NOT dead-lettered.
// Only messages fetched but uncommitted at crash time come back on restart.
type Handler func(ctx context.Context, m kafka.Message) error

// reader is the slice of kafka.Reader the consumer loop needs.
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Consumer struct {
	r       reader
	queue   string
	workers int
	log     *zap.Logger
}

func NewConsumer(brokers []string, group, queue string, workers int, log *zap.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        group,
		Topic:          queue,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commit
	})
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{r: r, queue: queue, workers: workers, log: log}
}

// Start registers h as the sole processor for the queue and blocks until ctx
// is cancelled. Broker errors never terminate the loop; it logs, backs off
// and keeps awaiting the next delivery.
func (c *Consumer) Start(ctx context.Context, h Handler) error {
	defer c.r.Close()

	jobs := make(chan kafka.Message, 256)
	var wg sync.WaitGroup

	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range jobs {
				if err := h(ctx, m); err != nil {
					c.log.Error("message dropped",
						zap.String("queue", c.queue),
						zap.Int("partition", m.Partition),
						zap.Int64("offset", m.Offset),
						zap.Error(err))
				}
				// Commit regardless of handler outcome: failed messages are
				// dropped, not requeued.
				if err := c.r.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
					c.log.Error("commit failed",
						zap.String("queue", c.queue),
						zap.Int64("offset", m.Offset),
						zap.Error(err))
				}
			}
		}()
	}

	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				close(jobs)
				wg.Wait()
				return nil
			}
			c.log.Error("fetch failed", zap.String("queue", c.queue), zap.Error(err))
			time.Sleep(500 * time.Millisecond)
			continue
		}
		select {
		case jobs <- m:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil
		}
	}
}
