package tenant

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ariefcatur/go-tenant-orders.git/internal/config"
	"github.com/ariefcatur/go-tenant-orders.git/internal/errs"
	"github.com/ariefcatur/go-tenant-orders.git/internal/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DialTimeout bounds a single establishment attempt. A tenant whose store
// does not answer within this window is not cached, so a later call retries.
const DialTimeout = 5 * time.Second

type dialFunc func(ctx context.Context, tenantID string) (*pgxpool.Pool, error)

// Registry hands out one backing-store pool per tenant id. Pools are created
// lazily on first use and kept for the life of the process; there is no
// eviction and no per-tenant close.
type Registry struct {
	dial dialFunc
	log  *zap.Logger

	sf    singleflight.Group
	mu    sync.RWMutex
	pools map[string]*pgxpool.Pool
}

func NewRegistry(cfg config.Config, log *zap.Logger) *Registry {
	return &Registry{
		dial: func(ctx context.Context, tenantID string) (*pgxpool.Pool, error) {
			pool, err := postgres.Connect(ctx, cfg.TenantDSN(tenantID))
			if err != nil {
				return nil, err
			}
			if err := ensureSchema(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
			return pool, nil
		},
		log:   log,
		pools: make(map[string]*pgxpool.Pool),
	}
}

// GetOrCreate returns the cached pool for tenantID, establishing it first if
// needed. Concurrent first-access callers for the same tenant share a single
// establishment attempt and all receive its result; a failed attempt leaves
// nothing cached.
func (r *Registry) GetOrCreate(ctx context.Context, tenantID string) (*pgxpool.Pool, error) {
	if tenantID == "" {
		return nil, errs.ErrInvalidTenant
	}

	r.mu.RLock()
	pool, ok := r.pools[tenantID]
	r.mu.RUnlock()
	if ok {
		return pool, nil
	}

	v, err, _ := r.sf.Do(tenantID, func() (any, error) {
		// A previous flight may have finished between the read above and here.
		r.mu.RLock()
		pool, ok := r.pools[tenantID]
		r.mu.RUnlock()
		if ok {
			return pool, nil
		}

		dctx, cancel := context.WithTimeout(ctx, DialTimeout)
		defer cancel()

		pool, err := r.dial(dctx, tenantID)
		if err != nil {
			r.log.Error("tenant store dial failed",
				zap.String("tenant_id", tenantID),
				zap.Error(err))
			return nil, fmt.Errorf("%w: tenant %q: %v", errs.ErrConnectionUnavailable, tenantID, err)
		}

		r.mu.Lock()
		r.pools[tenantID] = pool
		r.mu.Unlock()
		r.log.Info("tenant store connected", zap.String("tenant_id", tenantID))
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*pgxpool.Pool), nil
}

// Close releases every cached pool. Only called at process shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, pool := range r.pools {
		pool.Close()
		delete(r.pools, id)
	}
}
