package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/quillpress/blog-client/internal/core/domain"
	"github.com/quillpress/blog-client/internal/core/ports"
)

// ArticleRepository keeps articles in insertion order.
type ArticleRepository struct {
	mu       sync.RWMutex
	articles []domain.Article
}

// NewArticleRepository returns a repository holding a copy of seed.
func NewArticleRepository(seed ...domain.Article) *ArticleRepository {
	return &ArticleRepository{articles: slices.Clone(seed)}
}

func (r *ArticleRepository) Create(_ context.Context, a *domain.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexOf(a.ID) >= 0 {
		return domain.ErrInvalidArticle
	}
	r.articles = append(r.articles, *a)
	return nil
}

func (r *ArticleRepository) FindByID(_ context.Context, id domain.ID) (*domain.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, domain.ErrArticleNotFound
	}
	a := r.articles[i]
	return &a, nil
}

func (r *ArticleRepository) List(_ context.Context, f ports.ListArticlesFilter) ([]*domain.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(f.Query)
	out := []*domain.Article{}
	for _, a := range r.articles {
		if f.CategoryID != "" && a.CategoryID != f.CategoryID {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(a.Title), q) && !strings.Contains(strings.ToLower(a.Content), q) {
			continue
		}
		a := a
		out = append(out, &a)
	}
	return out, nil
}

func (r *ArticleRepository) Update(_ context.Context, id domain.ID, fn func(*domain.Article)) (*domain.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return nil, domain.ErrArticleNotFound
	}
	a := r.articles[i]
	fn(&a)
	a.ID = id
	r.articles[i] = a
	return &a, nil
}

func (r *ArticleRepository) Delete(_ context.Context, id domain.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return domain.ErrArticleNotFound
	}
	r.articles = slices.Delete(r.articles, i, i+1)
	return nil
}

// indexOf must be called with mu held.
func (r *ArticleRepository) indexOf(id domain.ID) int {
	return slices.IndexFunc(r.articles, func(a domain.Article) bool { return a.ID == id })
}

// CategoryRepository serves a fixed category set.
type CategoryRepository struct {
	categories []domain.Category
}

func NewCategoryRepository(categories ...domain.Category) *CategoryRepository {
	return &CategoryRepository{categories: slices.Clone(categories)}
}

func (r *CategoryRepository) ListCategories(context.Context) ([]domain.Category, error) {
	return slices.Clone(r.categories), nil
}

// SeedCategories is the default category set.
func SeedCategories() []domain.Category {
	return []domain.Category{
		{ID: "1", Name: "Technology"},
		{ID: "2", Name: "Travel"},
		{ID: "3", Name: "Lifestyle"},
		{ID: "4", Name: "Development"},
	}
}

// SeedArticles is a small fixture set relative to now.
func SeedArticles(now time.Time) []domain.Article {
	return []domain.Article{
		{
			ID: "1", Title: "Getting started with Go modules",
			Content:    "Modules are how Go manages dependencies. A module is a collection of packages versioned together.",
			CategoryID: "4", Category: "Development", Author: "Test User",
			CreatedAt: now.Add(-3 * 24 * time.Hour), Likes: 12, CommentCount: 3,
		},
		{
			ID: "2", Title: "A week in Lisbon",
			Content:    "Trams, tiles and custard tarts. Notes from a slow week on the Atlantic coast.",
			CategoryID: "2", Category: "Travel", Author: "Anonymous",
			CreatedAt: now.Add(-10 * 24 * time.Hour), Likes: 5,
		},
		{
			ID: "3", Title: "Why your laptop fan is loud",
			Content:    "Thermal throttling, background indexing and browser tabs are the usual suspects.",
			CategoryID: "1", Category: "Technology", Author: "Test User",
			CreatedAt: now.Add(-40 * 24 * time.Hour),
		},
	}
}
