package ports

import (
	"context"

	"github.com/quillpress/blog-client/internal/core/domain"
)

// ArticleTransport issues one network request per logical article operation.
//
// Every failure is a *domain.Failure whose Kind is the operation's sentinel
// (domain.ErrFetchFailed for List, domain.ErrCreateFailed for Create, ...).
// List-shaped results are never nil.
type ArticleTransport interface {
	List(ctx context.Context) ([]domain.Article, error)
	Get(ctx context.Context, id domain.ID) (domain.Article, error)
	Create(ctx context.Context, draft domain.ArticleDraft) (domain.Article, error)
	Update(ctx context.Context, id domain.ID, draft domain.ArticleDraft) (domain.Article, error)
	Delete(ctx context.Context, id domain.ID) error
	Search(ctx context.Context, query string) ([]domain.Article, error)
	FilterByCategory(ctx context.Context, categoryID domain.ID) ([]domain.Article, error)
	Like(ctx context.Context, id domain.ID) (domain.Article, error)
	Bookmark(ctx context.Context, id domain.ID) (domain.Article, error)
}

// CategorySource returns the current category set. It is read-only.
type CategorySource interface {
	Categories(ctx context.Context) ([]domain.Category, error)
}

// TokenSource yields the bearer token to attach to outgoing requests. An empty
// token means no Authorization header.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}
