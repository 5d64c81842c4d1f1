package ingest

import (
	"context"
	"fmt"

	kafkax "github.com/ariefcatur/go-tenant-orders.git/internal/kafka"
	"github.com/ariefcatur/go-tenant-orders.git/internal/orders"
	"github.com/ariefcatur/go-tenant-orders.git/internal/redisx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Registry resolves a tenant id to its backing-store pool.
type Registry interface {
	GetOrCreate(ctx context.Context, tenantID string) (*pgxpool.Pool, error)
}

// Service is the consumer side of the order pipeline: it turns a queued
// order_created event into a persisted record in the event's tenant store.
// Any returned error drops the message (see kafka.Handler).
type Service struct {
	Registry Registry
	Cache    *redis.Client
	Log      *zap.Logger

	insert func(ctx context.Context, db *pgxpool.Pool, p orders.Payload) (orders.Order, error)
}

func NewService(reg Registry, cache *redis.Client, log *zap.Logger) *Service {
	return &Service{
		Registry: reg,
		Cache:    cache,
		Log:      log,
		insert: func(ctx context.Context, db *pgxpool.Pool, p orders.Payload) (orders.Order, error) {
			r := &orders.Repo{DB: db}
			return r.Insert(ctx, p)
		},
	}
}

// HandleOrderCreated is registered as the queue's consumer handler.
func (s *Service) HandleOrderCreated(ctx context.Context, m kafkago.Message) error {
	ev, err := kafkax.Decode[orders.Event](m.Value)
	if err != nil {
		return err
	}
	if ev.Kind != orders.KindOrderCreated {
		return nil // foreign kinds are not ours to fail
	}
	if ev.TenantID == "" {
		return fmt.Errorf("event missing tenantId")
	}
	if len(ev.Data) == 0 || string(ev.Data) == "null" {
		return fmt.Errorf("event missing data")
	}

	// The only path to a store handle is the registry keyed by the event's
	// own tenant id, so the write cannot land in another tenant's database.
	pool, err := s.Registry.GetOrCreate(ctx, ev.TenantID)
	if err != nil {
		return err
	}

	payload, err := kafkax.Decode[orders.Payload](ev.Data)
	if err != nil {
		return err
	}

	o, err := s.insert(ctx, pool, payload)
	if err != nil {
		return fmt.Errorf("persist order: %w", err)
	}

	s.Log.Info("order created",
		zap.String("tenant_id", ev.TenantID),
		zap.String("order_id", o.ID))

	if s.Cache != nil {
		key := fmt.Sprintf(redisx.KeyOrder, ev.TenantID, o.ID)
		_ = s.Cache.Set(ctx, key, kafkax.MustMarshal(o), redisx.TTLOrderCache).Err()
	}
	return nil
}
