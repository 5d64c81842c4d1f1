package httpx_test

import (
	"testing"

	"github.com/ariefcatur/go-tenant-orders.git/internal/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(errs []httpx.FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestOrderSchemaValid(t *testing.T) {
	v := httpx.NewValidator()
	errs := v.Check(httpx.CreateOrderReq{
		UserID:      "u-1",
		Items:       []httpx.LineItemReq{{ProductID: "p-1", Quantity: 1}},
		TotalAmount: 10,
		Status:      "pending",
	})
	assert.Nil(t, errs)
}

func TestOrderSchemaMissingEverything(t *testing.T) {
	v := httpx.NewValidator()
	errs := v.Check(httpx.CreateOrderReq{})
	got := fields(errs)
	assert.Contains(t, got, "user")
	assert.Contains(t, got, "products")
	assert.Contains(t, got, "totalAmount")
}

func TestOrderSchemaRejectsUnknownStatus(t *testing.T) {
	v := httpx.NewValidator()
	errs := v.Check(httpx.CreateOrderReq{
		UserID:      "u-1",
		Items:       []httpx.LineItemReq{{ProductID: "p-1", Quantity: 1}},
		TotalAmount: 10,
		Status:      "shipped",
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "status", errs[0].Field)
}

func TestUserSchema(t *testing.T) {
	v := httpx.NewValidator()

	assert.Nil(t, v.Check(httpx.UserReq{Name: "Ana", Email: "ana@example.com", Password: "secret1"}))

	errs := v.Check(httpx.UserReq{Name: "Ana", Email: "not-an-email", Password: "short"})
	got := fields(errs)
	assert.Contains(t, got, "email")
	assert.Contains(t, got, "password")
}

func TestProductSchema(t *testing.T) {
	v := httpx.NewValidator()

	assert.Nil(t, v.Check(httpx.ProductReq{Name: "Widget", Price: 9.99, Stock: 0}))

	errs := v.Check(httpx.ProductReq{Name: "Widget", Price: -1, Stock: -3})
	got := fields(errs)
	assert.Contains(t, got, "price")
	assert.Contains(t, got, "stock")
}
