package ports

import (
	"context"

	"github.com/quillpress/blog-client/internal/core/domain"
)

// ListArticlesFilter carries the query parameters of GET /articles.
type ListArticlesFilter struct {
	Query      string    // optional: case-insensitive match on title or content
	CategoryID domain.ID // optional: exact category match
}

// ArticleRepository defines persistence operations behind the mock API.
type ArticleRepository interface {
	Create(ctx context.Context, a *domain.Article) error
	FindByID(ctx context.Context, id domain.ID) (*domain.Article, error)
	// List returns articles in creation order.
	List(ctx context.Context, filter ListArticlesFilter) ([]*domain.Article, error)
	// Update applies fn to the stored article as one atomic read-modify-write
	// and returns the result. The ID cannot be changed.
	Update(ctx context.Context, id domain.ID, fn func(*domain.Article)) (*domain.Article, error)
	Delete(ctx context.Context, id domain.ID) error
}

// CategoryRepository lists the categories served by the mock API.
type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
}
