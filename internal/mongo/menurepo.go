package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// menuDocID is the fixed id of the single menu document. The whole card is
// stored as one nested tree and replaced wholesale on updates.
const menuDocID = "menu"

type MenuRepo struct {
	collection *mongo.Collection
}

func NewMenuRepo(db *mongo.Database) *MenuRepo {
	return &MenuRepo{collection: db.Collection("menu")}
}

func (r *MenuRepo) Get(ctx context.Context) (map[string]any, error) {
	var doc bson.M
	err := r.collection.FindOne(ctx, bson.M{"_id": menuDocID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot get menu: %w", err)
	}

	delete(doc, "_id")
	return doc, nil
}

func (r *MenuRepo) Put(ctx context.Context, doc map[string]any) error {
	stored := bson.M{"_id": menuDocID}
	for k, v := range doc {
		stored[k] = v
	}

	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": menuDocID}, stored, opts)
	if err != nil {
		return fmt.Errorf("cannot put menu: %w", err)
	}
	return nil
}
