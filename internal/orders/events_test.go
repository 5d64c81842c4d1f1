package orders_test

import (
	"encoding/json"
	"testing"

	kafkax "github.com/ariefcatur/go-tenant-orders.git/internal/kafka"
	"github.com/ariefcatur/go-tenant-orders.git/internal/orders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRoundTrip(t *testing.T) {
	payload := orders.Payload{
		UserID: "u-1",
		Items: []orders.LineItem{
			{ProductID: "p-1", Quantity: 2},
			{ProductID: "p-2", Quantity: 1},
		},
		TotalAmount: 49.99,
		Status:      orders.StatusPending,
	}
	ev := orders.Event{
		Kind:     orders.KindOrderCreated,
		TenantID: "acme",
		Data:     kafkax.MustMarshal(payload),
	}

	// What the producer puts on the wire, as the consumer sees it.
	decoded, err := kafkax.Decode[orders.Event](kafkax.MustMarshal(ev))
	require.NoError(t, err)
	assert.Equal(t, orders.KindOrderCreated, decoded.Kind)
	assert.Equal(t, "acme", decoded.TenantID)

	got, err := kafkax.Decode[orders.Payload](decoded.Data)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestEventWireFormat(t *testing.T) {
	ev := orders.Event{
		Kind:     orders.KindOrderCreated,
		TenantID: "acme",
		Data:     json.RawMessage(`{"user":"u-1"}`),
	}
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"order_created","tenantId":"acme","data":{"user":"u-1"}}`, string(b))
}

func TestStatusValid(t *testing.T) {
	assert.True(t, orders.StatusPending.Valid())
	assert.True(t, orders.StatusCompleted.Valid())
	assert.True(t, orders.StatusCancelled.Valid())
	assert.False(t, orders.Status("shipped").Valid())
	assert.False(t, orders.Status("").Valid())
}
