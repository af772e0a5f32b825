package ports

import (
	"context"

	"github.com/quillpress/blog-client/internal/core/domain"
)

// WriteArticleInput carries the fields a client may set on create or update.
type WriteArticleInput struct {
	Title      string
	Content    string
	CategoryID domain.ID
	Image      string
	// Author and UserID are taken from the verified bearer token when present.
	Author string
	UserID domain.ID
}

// ArticleService defines the mock API use cases. Like and Bookmark toggle the
// flag and return the resulting record.
type ArticleService interface {
	List(ctx context.Context, filter ListArticlesFilter) ([]*domain.Article, error)
	Get(ctx context.Context, id domain.ID) (*domain.Article, error)
	Create(ctx context.Context, input WriteArticleInput) (*domain.Article, error)
	Update(ctx context.Context, id domain.ID, input WriteArticleInput) (*domain.Article, error)
	Delete(ctx context.Context, id domain.ID) error
	ToggleLike(ctx context.Context, id domain.ID) (*domain.Article, error)
	ToggleBookmark(ctx context.Context, id domain.ID) (*domain.Article, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}
