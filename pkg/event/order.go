package event

import "time"

const (
	OrderItemsTopic = "orders.items"

	EventOrderItemAdded   = "order.item.added"
	EventOrderItemUpdated = "order.item.updated"
	EventOrderSent        = "order.sent"
	EventOrderClosed      = "order.closed"
)

// OrderChangedEvent announces that a table's current order document changed.
// Consumers holding a cached view of the order re-read the full document; the
// event only localizes which table to refresh.
type OrderChangedEvent struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Room       string    `json:"room"`
	Table      string    `json:"table"`
	LineKey    string    `json:"line_key,omitempty"`
}
