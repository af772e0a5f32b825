package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quillpress/blog-client/internal/core/domain"
)

const collectionCategories = "categories"

// CategoryRepository implements ports.CategoryRepository using MongoDB.
type CategoryRepository struct {
	col *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{col: db.Collection(collectionCategories)}
}

type mongoCategory struct {
	ID   string `bson:"_id"`
	Name string `bson:"name"`
}

// ListCategories returns every category ordered by ID.
func (r *CategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoCategory
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	out := make([]domain.Category, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.Category{ID: domain.ID(d.ID), Name: d.Name})
	}
	return out, nil
}

// Seed upserts cats so a fresh database serves a usable category set.
func (r *CategoryRepository) Seed(ctx context.Context, cats []domain.Category) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for _, c := range cats {
		_, err := r.col.UpdateOne(ctx,
			bson.M{"_id": c.ID.String()},
			bson.M{"$setOnInsert": bson.M{"name": c.Name}},
			options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.ID, err)
		}
	}
	return nil
}
