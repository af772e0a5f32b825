package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quillpress/blog-client/internal/core/ports"
)

const kvCollection = "client_state"

// KV is a ports.KeyValueStore with one document per key.
type KV struct {
	coll *mongo.Collection
}

func NewKV(db *mongo.Database) *KV {
	return &KV{coll: db.Collection(kvCollection)}
}

type kvDoc struct {
	Key       string `bson:"_id"`
	Value     string `bson:"value"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (k *KV) Get(ctx context.Context, key string) (string, error) {
	var d kvDoc
	if err := k.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ports.ErrKeyNotFound
		}
		return "", fmt.Errorf("find %s: %w", key, err)
	}
	return d.Value, nil
}

func (k *KV) Set(ctx context.Context, key, value string) error {
	doc := kvDoc{Key: key, Value: value, UpdatedAt: time.Now().UTC().Unix()}
	_, err := k.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (k *KV) Delete(ctx context.Context, key string) error {
	if _, err := k.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
