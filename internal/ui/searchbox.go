package ui

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/quillpress/blog-client/internal/core/domain"
)

const defaultMinQueryLength = 2

// Lister is the part of the article store the search box drives.
type Lister interface {
	FetchAll(ctx context.Context) error
	Search(ctx context.Context, query string) error
	FilterByCategory(ctx context.Context, categoryID domain.ID) error
}

// SearchBox turns typed input into store list operations.
type SearchBox struct {
	store  Lister
	minLen int
}

// NewSearchBox returns a search box that refuses queries shorter than minLen
// characters. minLen <= 0 selects 2.
func NewSearchBox(store Lister, minLen int) *SearchBox {
	if minLen <= 0 {
		minLen = defaultMinQueryLength
	}
	return &SearchBox{store: store, minLen: minLen}
}

// Submit runs a search for input. Blank input restores the full list. A
// query that is too short is refused with a Prompt and nothing is sent.
func (b *SearchBox) Submit(ctx context.Context, input string) error {
	q := strings.TrimSpace(input)
	if q == "" {
		return b.store.FetchAll(ctx)
	}
	if utf8.RuneCountInString(q) < b.minLen {
		return &Prompt{Message: fmt.Sprintf("Type at least %d characters to search", b.minLen)}
	}
	return b.store.Search(ctx, q)
}

// Filter shows only the articles of one category. An empty category restores
// the full list.
func (b *SearchBox) Filter(ctx context.Context, categoryID domain.ID) error {
	if strings.TrimSpace(categoryID.String()) == "" {
		return b.store.FetchAll(ctx)
	}
	return b.store.FilterByCategory(ctx, categoryID)
}
