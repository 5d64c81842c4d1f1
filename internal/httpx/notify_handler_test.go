package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ariefcatur/go-tenant-orders.git/internal/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBroadcaster struct {
	sent []any
}

func (f *fakeBroadcaster) Broadcast(v any) { f.sent = append(f.sent, v) }

func TestNotifyBroadcastsToHub(t *testing.T) {
	hub := &fakeBroadcaster{}
	r := httpx.NewRouter()
	(&httpx.NotifyHandler{Hub: hub}).Register(r)

	// No tenant header: notify is global, not tenant-scoped.
	req := httptest.NewRequest(http.MethodPost, "/api/notify", strings.NewReader(`{"message":"hello"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Notification sent")
	require.Len(t, hub.sent, 1)
	assert.Equal(t, map[string]string{"message": "hello"}, hub.sent[0])
}
