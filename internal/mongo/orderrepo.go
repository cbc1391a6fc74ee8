package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/muehlenhof/pos/internal/order"
)

type OrderRepo struct {
	collection *mongo.Collection
}

func NewOrderRepo(db *mongo.Database) *OrderRepo {
	return &OrderRepo{collection: db.Collection("orders")}
}

func (r *OrderRepo) Get(ctx context.Context, room, table string) (*order.Order, error) {
	var o order.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": order.OrderID(room, table)}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot get order: %w", err)
	}
	return &o, nil
}

func (r *OrderRepo) Save(ctx context.Context, o *order.Order) error {
	if o == nil {
		return fmt.Errorf("order is nil")
	}

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": o.ID}, o, opts)
	if err != nil {
		return fmt.Errorf("cannot save order: %w", err)
	}
	return nil
}

func (r *OrderRepo) Delete(ctx context.Context, room, table string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": order.OrderID(room, table)})
	if err != nil {
		return fmt.Errorf("cannot delete order: %w", err)
	}
	return nil
}
