// Package order keeps the open order per table, computes the delta sent to
// the printers and archives paid orders.
package order

import (
	"time"
)

// Line is one position of an open order. A line is keyed by the menu item id,
// or by "itemID__sizeLabel" when the guest picked a size. Lines stay in the
// document at qty 0 so the next send can still print their cancellation.
type Line struct {
	Name        string    `json:"name" bson:"name"`
	Price       float64   `json:"price" bson:"price"`
	Qty         int       `json:"qty" bson:"qty"`
	Dept        string    `json:"dept" bson:"dept"`
	Size        string    `json:"size,omitempty" bson:"size,omitempty"`
	Course      string    `json:"course,omitempty" bson:"course,omitempty"`
	Note        string    `json:"note,omitempty" bson:"note,omitempty"`
	OrderedQty  int       `json:"ordered_qty" bson:"orderedQty"`
	PrintedQty  int       `json:"printed_qty" bson:"printedQty"`
	LastAddedAt time.Time `json:"last_added_at" bson:"lastAddedAt"`
}

// LineKey builds the item map key for an item and an optional size label.
func LineKey(itemID, sizeLabel string) string {
	if sizeLabel == "" {
		return itemID
	}
	return itemID + "__" + sizeLabel
}

// Visible reports whether the line shows up in views, totals and billing.
func (l *Line) Visible() bool {
	return l.Qty > 0
}

// SentQty is the quantity already announced to the printers. Older documents
// only carry printedQty.
func (l *Line) SentQty() int {
	if l.OrderedQty > 0 {
		return l.OrderedQty
	}
	return l.PrintedQty
}
