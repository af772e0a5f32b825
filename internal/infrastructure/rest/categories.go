package rest

import (
	"context"
	"net/http"

	"github.com/quillpress/blog-client/internal/core/domain"
)

// CategoryClient reads the /categories collection.
type CategoryClient struct {
	c *client
}

// NewCategoryClient returns a client for the collection at endpoint, e.g.
// "http://localhost:3001/categories".
func NewCategoryClient(endpoint string, options ...Option) (*CategoryClient, error) {
	c, err := newClient(endpoint, options...)
	if err != nil {
		return nil, err
	}
	return &CategoryClient{c: c}, nil
}

// Categories issues GET /categories.
func (cc *CategoryClient) Categories(ctx context.Context) ([]domain.Category, error) {
	payload, err := cc.c.do(ctx, opCategories, http.MethodGet, nil, "", nil)
	if err != nil {
		return []domain.Category{}, err
	}
	return decodeList[domain.Category](opCategories, payload)
}
