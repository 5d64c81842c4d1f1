package orders

import "encoding/json"

// Queue is the single named queue carrying order-creation events.
const Queue = "orderQueue"

const KindOrderCreated = "order_created"

// Event is the queue wire format:
//
//	{"kind":"order_created","tenantId":"<t>","data":{...payload...}}
//
// The payload stays raw until the consumer resolves the kind, so a malformed
// body is a per-message processing error, never a decode crash.
type Event struct {
	Kind     string          `json:"kind"`
	TenantID string          `json:"tenantId"`
	Data     json.RawMessage `json:"data"`
}

// PartitionKey groups a tenant's events onto one partition so the transport's
// per-partition ordering applies within a tenant.
func PartitionKey(tenantID string) []byte { return []byte(tenantID) }
