package rest

import (
	"context"
	"net/http"

	"github.com/quillpress/blog-client/internal/core/domain"
)

// ArticleClient talks to the /articles collection endpoint.
type ArticleClient struct {
	c *client
}

// NewArticleClient returns a client for the collection at endpoint, e.g.
// "http://localhost:3001/articles".
func NewArticleClient(endpoint string, options ...Option) (*ArticleClient, error) {
	c, err := newClient(endpoint, options...)
	if err != nil {
		return nil, err
	}
	return &ArticleClient{c: c}, nil
}

// List issues GET /articles.
func (a *ArticleClient) List(ctx context.Context) ([]domain.Article, error) {
	return a.list(ctx, opList, "")
}

// Search issues GET /articles?q=<query>. The query is forwarded verbatim,
// only percent-encoded.
func (a *ArticleClient) Search(ctx context.Context, query string) ([]domain.Article, error) {
	return a.list(ctx, opSearch, "q="+escapeComponent(query))
}

// FilterByCategory issues GET /articles?categoryId=<id>.
func (a *ArticleClient) FilterByCategory(ctx context.Context, categoryID domain.ID) ([]domain.Article, error) {
	return a.list(ctx, opFilter, "categoryId="+escapeComponent(categoryID.String()))
}

// Get issues GET /articles/{id}.
func (a *ArticleClient) Get(ctx context.Context, id domain.ID) (domain.Article, error) {
	return a.one(ctx, opGet, http.MethodGet, id, "", nil)
}

// Create issues POST /articles.
func (a *ArticleClient) Create(ctx context.Context, draft domain.ArticleDraft) (domain.Article, error) {
	payload, err := a.c.do(ctx, opCreate, http.MethodPost, nil, "", draft)
	if err != nil {
		return domain.Article{}, err
	}
	article, err := decodeOne[domain.Article](opCreate, payload)
	return article.Normalize(), err
}

// Update issues PUT /articles/{id}.
func (a *ArticleClient) Update(ctx context.Context, id domain.ID, draft domain.ArticleDraft) (domain.Article, error) {
	return a.one(ctx, opUpdate, http.MethodPut, id, "", draft)
}

// Delete issues DELETE /articles/{id}. The response body is ignored.
func (a *ArticleClient) Delete(ctx context.Context, id domain.ID) error {
	if id == "" {
		return domain.NewFailure(opDelete.kind, opDelete.fallback, 0, domain.ErrMissingID)
	}
	_, err := a.c.do(ctx, opDelete, http.MethodDelete, []string{id.String()}, "", nil)
	return err
}

// Like issues PATCH /articles/{id}/like and returns the server's echo.
func (a *ArticleClient) Like(ctx context.Context, id domain.ID) (domain.Article, error) {
	return a.one(ctx, opLike, http.MethodPatch, id, "like", nil)
}

// Bookmark issues PATCH /articles/{id}/bookmark and returns the server's echo.
func (a *ArticleClient) Bookmark(ctx context.Context, id domain.ID) (domain.Article, error) {
	return a.one(ctx, opBookmark, http.MethodPatch, id, "bookmark", nil)
}

func (a *ArticleClient) list(ctx context.Context, op operation, rawQuery string) ([]domain.Article, error) {
	payload, err := a.c.do(ctx, op, http.MethodGet, nil, rawQuery, nil)
	if err != nil {
		return []domain.Article{}, err
	}
	articles, err := decodeList[domain.Article](op, payload)
	for i := range articles {
		articles[i] = articles[i].Normalize()
	}
	return articles, err
}

func (a *ArticleClient) one(ctx context.Context, op operation, method string, id domain.ID, action string, body any) (domain.Article, error) {
	if id == "" {
		return domain.Article{}, domain.NewFailure(op.kind, op.fallback, 0, domain.ErrMissingID)
	}
	segments := []string{id.String()}
	if action != "" {
		segments = append(segments, action)
	}
	payload, err := a.c.do(ctx, op, method, segments, "", body)
	if err != nil {
		return domain.Article{}, err
	}
	article, err := decodeOne[domain.Article](op, payload)
	return article.Normalize(), err
}
