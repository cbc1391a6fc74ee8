package order

import "context"

// Repo persists open orders, one document per table. Get returns nil, nil
// when the table has no open order.
type Repo interface {
	Get(ctx context.Context, room, table string) (*Order, error)
	Save(ctx context.Context, o *Order) error
	Delete(ctx context.Context, room, table string) error
}

// HistoryRepo stores paid orders. Records are append-only.
type HistoryRepo interface {
	Create(ctx context.Context, rec *HistoryRecord) error
	ListByTable(ctx context.Context, room, table string) ([]*HistoryRecord, error)
}

// TableStatus flips the occupied flag on the floor plan. Implemented by the
// floorplan repo.
type TableStatus interface {
	SetOccupied(ctx context.Context, room, table string, occupied bool) error
}
