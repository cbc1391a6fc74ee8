package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/muehlenhof/pos/internal/order"
)

type HistoryRepo struct {
	collection *mongo.Collection
}

func NewHistoryRepo(db *mongo.Database) *HistoryRepo {
	return &HistoryRepo{collection: db.Collection("order_history")}
}

func (r *HistoryRepo) Create(ctx context.Context, rec *order.HistoryRecord) error {
	if rec == nil {
		return fmt.Errorf("history record is nil")
	}
	_, err := r.collection.InsertOne(ctx, rec)
	if err != nil {
		return fmt.Errorf("cannot create history record: %w", err)
	}
	return nil
}

func (r *HistoryRepo) ListByTable(ctx context.Context, room, table string) ([]*order.HistoryRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "paidAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"room": room, "table": table}, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list history records: %w", err)
	}
	defer cursor.Close(ctx)

	var recs []*order.HistoryRecord
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("cannot decode history records: %w", err)
	}
	return recs, nil
}
