package redisx

import "time"

const (
	// Cached order document: order:{tenant_id}:{order_id} -> order JSON
	KeyOrder = "order:%s:%s"
)

var (
	TTLOrderCache = 5 * time.Minute
)
