package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ariefcatur/go-tenant-orders.git/internal/errs"
	kafkax "github.com/ariefcatur/go-tenant-orders.git/internal/kafka"
	"github.com/ariefcatur/go-tenant-orders.git/internal/orders"
	"github.com/ariefcatur/go-tenant-orders.git/internal/redisx"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Publisher is the producer side of the event bus.
type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

// Registry resolves a tenant id to its backing-store pool.
type Registry interface {
	GetOrCreate(ctx context.Context, tenantID string) (*pgxpool.Pool, error)
}

type OrdersHandler struct {
	Registry  Registry
	Publisher Publisher
	Redis     *redis.Client
	Validate  *Validator
	Log       *zap.Logger
}

type LineItemReq struct {
	ProductID string `json:"product" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type CreateOrderReq struct {
	UserID      string        `json:"user" validate:"required"`
	Items       []LineItemReq `json:"products" validate:"required,min=1,dive"`
	TotalAmount float64       `json:"totalAmount" validate:"required,gt=0"`
	Status      string        `json:"status" validate:"omitempty,oneof=pending completed cancelled"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(RequireTenant)
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
}

// create validates the body and publishes an order_created event. It answers
// 202 before anything is persisted: success means "accepted for processing",
// never "order persisted".
func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if ferrs := h.Validate.Check(req); ferrs != nil {
		writeValidationErrors(w, ferrs)
		return
	}

	payload := orders.Payload{
		UserID:      req.UserID,
		TotalAmount: req.TotalAmount,
		Status:      orders.Status(req.Status),
	}
	if payload.Status == "" {
		payload.Status = orders.StatusPending
	}
	for _, it := range req.Items {
		payload.Items = append(payload.Items, orders.LineItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	tenantID := TenantID(r.Context())
	ev := orders.Event{
		Kind:     orders.KindOrderCreated,
		TenantID: tenantID,
		Data:     kafkax.MustMarshal(payload),
	}

	if err := h.Publisher.Publish(r.Context(), orders.PartitionKey(tenantID), kafkax.MustMarshal(ev)); err != nil {
		h.Log.Error("order event publish failed",
			zap.String("tenant_id", tenantID),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to publish order creation event")
		return
	}

	writeSuccess(w, http.StatusAccepted, "Order creation event published", payload)
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	pool, err := h.Registry.GetOrCreate(r.Context(), TenantID(r.Context()))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	repo := &orders.Repo{DB: pool}
	out, err := repo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	writeSuccess(w, http.StatusOK, "Orders fetched successfully", out)
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	tenantID := TenantID(r.Context())
	orderID := chi.URLParam(r, "id")

	key := fmt.Sprintf(redisx.KeyOrder, tenantID, orderID)
	if h.Redis != nil {
		if s, err := h.Redis.Get(r.Context(), key).Result(); err == nil && s != "" {
			writeSuccess(w, http.StatusOK, "Order fetched successfully", json.RawMessage(s))
			return
		}
	}

	pool, err := h.Registry.GetOrCreate(r.Context(), tenantID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	repo := &orders.Repo{DB: pool}
	o, err := repo.Get(r.Context(), orderID)
	if errors.Is(err, errs.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch order")
		return
	}

	if h.Redis != nil {
		_ = h.Redis.Set(r.Context(), key, kafkax.MustMarshal(o), redisx.TTLOrderCache).Err()
	}
	writeSuccess(w, http.StatusOK, "Order fetched successfully", o)
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, errs.ErrInvalidTenant) {
		writeError(w, http.StatusBadRequest, "Tenant ID is required")
		return
	}
	writeError(w, http.StatusInternalServerError, "Failed to connect to tenant database")
}
