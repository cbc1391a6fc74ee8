package floorplan

import "context"

// Repo persists rooms, one document per room. Get returns nil, nil for an
// unknown room.
type Repo interface {
	Get(ctx context.Context, name string) (*Room, error)
	List(ctx context.Context) ([]*Room, error)
	Save(ctx context.Context, room *Room) error
	SetOccupied(ctx context.Context, room, table string, occupied bool) error
}
