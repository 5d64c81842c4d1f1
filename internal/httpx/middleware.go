package httpx

import (
	"context"
	"net/http"
)

// HeaderTenantID carries the tenant id on every tenant-scoped request.
const HeaderTenantID = "x-tenant-id"

type ctxKey int

const tenantKey ctxKey = iota

// RequireTenant rejects requests without the tenant header and stashes the id
// in the request context for downstream handlers. It does not touch the
// registry: the producer path never opens a store connection.
func RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID := r.Header.Get(HeaderTenantID)
		if tenantID == "" {
			writeError(w, http.StatusBadRequest, "Tenant ID is required")
			return
		}
		ctx := context.WithValue(r.Context(), tenantKey, tenantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func TenantID(ctx context.Context) string {
	v, _ := ctx.Value(tenantKey).(string)
	return v
}
