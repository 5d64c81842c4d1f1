package tenant

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ariefcatur/go-tenant-orders.git/internal/errs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRegistry(dial dialFunc) *Registry {
	return &Registry{
		dial:  dial,
		log:   zap.NewNop(),
		pools: make(map[string]*pgxpool.Pool),
	}
}

func TestGetOrCreateRejectsEmptyTenant(t *testing.T) {
	r := newTestRegistry(func(ctx context.Context, tenantID string) (*pgxpool.Pool, error) {
		t.Fatal("dial must not be called for an empty tenant id")
		return nil, nil
	})

	_, err := r.GetOrCreate(context.Background(), "")
	assert.ErrorIs(t, err, errs.ErrInvalidTenant)
}

func TestGetOrCreateSingleFlight(t *testing.T) {
	var dials int32
	release := make(chan struct{})
	pool := new(pgxpool.Pool)

	r := newTestRegistry(func(ctx context.Context, tenantID string) (*pgxpool.Pool, error) {
		atomic.AddInt32(&dials, 1)
		<-release // hold every caller in the same flight
		return pool, nil
	})

	const n = 32
	results := make([]*pgxpool.Pool, n)
	errsOut := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errsOut[i] = r.GetOrCreate(context.Background(), "acme")
		}(i)
	}
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&dials), "concurrent first access must dial exactly once")
	for i := 0; i < n; i++ {
		require.NoError(t, errsOut[i])
		assert.Same(t, pool, results[i], "every caller must observe the same pool")
	}
}

func TestGetOrCreateReturnsCachedPool(t *testing.T) {
	var dials int32
	r := newTestRegistry(func(ctx context.Context, tenantID string) (*pgxpool.Pool, error) {
		atomic.AddInt32(&dials, 1)
		return new(pgxpool.Pool), nil
	})

	first, err := r.GetOrCreate(context.Background(), "acme")
	require.NoError(t, err)
	second, err := r.GetOrCreate(context.Background(), "acme")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&dials))
}

func TestGetOrCreateIsolatesTenants(t *testing.T) {
	r := newTestRegistry(func(ctx context.Context, tenantID string) (*pgxpool.Pool, error) {
		return new(pgxpool.Pool), nil
	})

	a, err := r.GetOrCreate(context.Background(), "acme")
	require.NoError(t, err)
	b, err := r.GetOrCreate(context.Background(), "globex")
	require.NoError(t, err)

	assert.NotSame(t, a, b, "tenants must not share a pool")
}

func TestGetOrCreateDoesNotCacheFailure(t *testing.T) {
	var dials int32
	r := newTestRegistry(func(ctx context.Context, tenantID string) (*pgxpool.Pool, error) {
		if atomic.AddInt32(&dials, 1) == 1 {
			return nil, errors.New("connection refused")
		}
		return new(pgxpool.Pool), nil
	})

	_, err := r.GetOrCreate(context.Background(), "acme")
	assert.ErrorIs(t, err, errs.ErrConnectionUnavailable)

	// The failed attempt must not be cached: the next call retries and succeeds.
	pool, err := r.GetOrCreate(context.Background(), "acme")
	require.NoError(t, err)
	assert.NotNil(t, pool)
	assert.Equal(t, int32(2), atomic.LoadInt32(&dials))
}
