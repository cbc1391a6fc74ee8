package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/muehlenhof/pos/internal/floorplan"
)

type RoomRepo struct {
	collection *mongo.Collection
}

func NewRoomRepo(db *mongo.Database) *RoomRepo {
	return &RoomRepo{collection: db.Collection("rooms")}
}

func (r *RoomRepo) Get(ctx context.Context, name string) (*floorplan.Room, error) {
	var room floorplan.Room
	err := r.collection.FindOne(ctx, bson.M{"_id": name}).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot get room: %w", err)
	}
	return &room, nil
}

func (r *RoomRepo) List(ctx context.Context) ([]*floorplan.Room, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("cannot list rooms: %w", err)
	}
	defer cursor.Close(ctx)

	var rooms []*floorplan.Room
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("cannot decode rooms: %w", err)
	}
	return rooms, nil
}

func (r *RoomRepo) Save(ctx context.Context, room *floorplan.Room) error {
	if room == nil {
		return fmt.Errorf("room is nil")
	}

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": room.Name}, room, opts)
	if err != nil {
		return fmt.Errorf("cannot save room: %w", err)
	}
	return nil
}

// SetOccupied flips one table's occupied flag without touching the rest of
// the room document.
func (r *RoomRepo) SetOccupied(ctx context.Context, room, table string, occupied bool) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": room},
		bson.M{"$set": bson.M{"tables." + table + ".occupied": occupied}},
	)
	if err != nil {
		return fmt.Errorf("cannot update table status: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("room not found: %s", room)
	}
	return nil
}
