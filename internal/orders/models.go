package orders

import "time"

type LineItem struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

// Payload is the pre-persistence shape of an order, exactly as validated at
// the HTTP boundary and carried through the queue. Immutable once published.
type Payload struct {
	UserID      string     `json:"user"`
	Items       []LineItem `json:"products"`
	TotalAmount float64    `json:"totalAmount"`
	Status      Status     `json:"status,omitempty"`
}

// Order is the persisted, tenant-scoped record. Created only by the queue
// consumer, inside the tenant's own database.
type Order struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user"`
	Items       []LineItem `json:"products"`
	TotalAmount float64    `json:"totalAmount"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
