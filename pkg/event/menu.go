package event

import "time"

const (
	MenuTopic        = "menu.changed"
	EventMenuUpdated = "menu.updated"
)

// MenuChangedEvent signals that the menu document was rewritten. Consumers
// re-read the full document; the event carries no partial payload on purpose.
type MenuChangedEvent struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	UpdatedBy  string    `json:"updated_by,omitempty"`
}
