package order

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Order is the open order of one table, stored as a single document keyed
// "room/table".
type Order struct {
	ID        string           `json:"id" bson:"_id"`
	Room      string           `json:"room" bson:"room"`
	Table     string           `json:"table" bson:"table"`
	Items     map[string]*Line `json:"items" bson:"items"`
	CreatedAt time.Time        `json:"created_at" bson:"createdAt"`
	UpdatedAt time.Time        `json:"updated_at" bson:"updatedAt"`
}

func NewOrder(room, table string) *Order {
	return &Order{
		ID:    OrderID(room, table),
		Room:  room,
		Table: table,
		Items: make(map[string]*Line),
	}
}

func OrderID(room, table string) string {
	return room + "/" + table
}

// Occupied reports whether the table currently has anything on its bill.
func (o *Order) Occupied() bool {
	for _, l := range o.Items {
		if l.Visible() {
			return true
		}
	}
	return false
}

// Total sums price times quantity over the visible lines.
func (o *Order) Total() float64 {
	var sum float64
	for _, l := range o.Items {
		if l.Visible() {
			sum += l.Price * float64(l.Qty)
		}
	}
	return sum
}

// DisplayLine pairs a line with its map key for list views.
type DisplayLine struct {
	Key string `json:"key"`
	*Line
}

// VisibleLines returns the billable lines ordered the way the waiter sees
// them, last added at the bottom, ties by collated name.
func (o *Order) VisibleLines() []DisplayLine {
	var out []DisplayLine
	for key, l := range o.Items {
		if l.Visible() {
			out = append(out, DisplayLine{Key: key, Line: l})
		}
	}

	col := collate.New(language.German, collate.Loose)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].LastAddedAt.Equal(out[j].LastAddedAt) {
			return out[i].LastAddedAt.Before(out[j].LastAddedAt)
		}
		return col.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

// HistoryRecord is one paid and archived order. Append-only.
type HistoryRecord struct {
	ID     uuid.UUID        `json:"id" bson:"_id"`
	Room   string           `json:"room" bson:"room"`
	Table  string           `json:"table" bson:"table"`
	PaidAt time.Time        `json:"paid_at" bson:"paidAt"`
	Items  map[string]*Line `json:"items" bson:"items"`
}

// NewHistoryRecord archives the visible lines of an order at payment time.
func NewHistoryRecord(o *Order, paidAt time.Time) *HistoryRecord {
	items := make(map[string]*Line)
	for key, l := range o.Items {
		if !l.Visible() {
			continue
		}
		copied := *l
		items[key] = &copied
	}
	return &HistoryRecord{
		ID:     uuid.New(),
		Room:   o.Room,
		Table:  o.Table,
		PaidAt: paidAt,
		Items:  items,
	}
}
