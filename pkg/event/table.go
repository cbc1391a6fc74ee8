package event

import "time"

const (
	// TableStatusTopic delivers authoritative occupancy changes for tables.
	TableStatusTopic = "tables.status"

	EventTableOccupied = "table.occupied"
	EventTableFreed    = "table.freed"
	EventTableRenamed  = "table.renamed"
)

// TableStatusEvent captures the minimal information a floor-plan client needs
// to recolor a table without re-reading the whole room.
type TableStatusEvent struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Room       string    `json:"room"`
	Table      string    `json:"table"`
	Occupied   bool      `json:"occupied"`
}
