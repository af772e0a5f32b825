package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quillpress/blog-client/internal/core/domain"
	"github.com/quillpress/blog-client/internal/core/ports"
)

const (
	collectionArticles = "articles"
	// maxUpdateAttempts bounds the compare-and-swap retries in Update.
	maxUpdateAttempts = 32
)

var errUpdateContended = errors.New("article changed concurrently")

type ArticleRepository struct {
	col *mongo.Collection
}

func NewArticleRepository(db *mongo.Database) *ArticleRepository {
	return &ArticleRepository{col: db.Collection(collectionArticles)}
}

type mongoArticle struct {
	ID           string    `bson:"_id"`
	Title        string    `bson:"title"`
	Content      string    `bson:"content"`
	CategoryID   string    `bson:"category_id"`
	Category     string    `bson:"category,omitempty"`
	Author       string    `bson:"author,omitempty"`
	UserID       string    `bson:"user_id,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
	Likes        int       `bson:"likes"`
	IsLiked      bool      `bson:"is_liked"`
	IsBookmarked bool      `bson:"is_bookmarked"`
	CommentCount int       `bson:"comment_count"`
	Image        string    `bson:"image,omitempty"`
	// Version is bumped on every Update and guards its write.
	Version int64 `bson:"version"`
}

func toDocument(a *domain.Article) mongoArticle {
	return mongoArticle{
		ID:           a.ID.String(),
		Title:        a.Title,
		Content:      a.Content,
		CategoryID:   a.CategoryID.String(),
		Category:     a.Category,
		Author:       a.Author,
		UserID:       a.UserID.String(),
		CreatedAt:    a.CreatedAt.UTC(),
		Likes:        a.Likes,
		IsLiked:      a.IsLiked,
		IsBookmarked: a.IsBookmarked,
		CommentCount: a.CommentCount,
		Image:        a.Image,
	}
}

func (m mongoArticle) toDomain() *domain.Article {
	return &domain.Article{
		ID:           domain.ID(m.ID),
		Title:        m.Title,
		Content:      m.Content,
		CategoryID:   domain.ID(m.CategoryID),
		Category:     m.Category,
		Author:       m.Author,
		UserID:       domain.ID(m.UserID),
		CreatedAt:    m.CreatedAt,
		Likes:        m.Likes,
		IsLiked:      m.IsLiked,
		IsBookmarked: m.IsBookmarked,
		CommentCount: m.CommentCount,
		Image:        m.Image,
	}
}

// Create inserts a new article document.
func (r *ArticleRepository) Create(ctx context.Context, a *domain.Article) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toDocument(a)); err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

// FindByID retrieves an article by its identifier.
func (r *ArticleRepository) FindByID(ctx context.Context, id domain.ID) (*domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoArticle
	err := r.col.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, err
	}
	return m.toDomain(), nil
}

// List returns the articles matching f, oldest first. Query matches title or
// content case-insensitively.
func (r *ArticleRepository) List(ctx context.Context, f ports.ListArticlesFilter) ([]*domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.CategoryID != "" {
		filter["category_id"] = f.CategoryID.String()
	}
	if f.Query != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(f.Query), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"content": pattern},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find articles: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoArticle
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode articles: %w", err)
	}

	out := make([]*domain.Article, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// Update reads the document, applies fn, and writes it back only when the
// stored version is still the one read. A lost race is retried.
func (r *ArticleRepository) Update(ctx context.Context, id domain.ID, fn func(*domain.Article)) (*domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for i := 0; i < maxUpdateAttempts; i++ {
		var current mongoArticle
		if err := r.col.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&current); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, domain.ErrArticleNotFound
			}
			return nil, fmt.Errorf("find article: %w", err)
		}

		a := current.toDomain()
		fn(a)
		a.ID = id
		next := toDocument(a)
		next.Version = current.Version + 1

		var stored mongoArticle
		err := r.col.FindOneAndReplace(ctx,
			bson.M{"_id": id.String(), "version": current.Version},
			next,
			options.FindOneAndReplace().SetReturnDocument(options.After),
		).Decode(&stored)
		if errors.Is(err, mongo.ErrNoDocuments) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("update article: %w", err)
		}
		return stored.toDomain(), nil
	}
	return nil, fmt.Errorf("update article %s: %w", id, errUpdateContended)
}

func (r *ArticleRepository) Delete(ctx context.Context, id domain.ID) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the articles collection.
func (r *ArticleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "category_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
