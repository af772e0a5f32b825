package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quillpress/blog-client/internal/core/domain"
	"github.com/quillpress/blog-client/internal/core/ports"
	"github.com/quillpress/blog-client/internal/metrics"
)

// anonymousAuthor is stored when a write carries no author.
const anonymousAuthor = "Anonymous"

// ArticleService implements the mock API use cases on top of a repository.
type ArticleService struct {
	repo       ports.ArticleRepository
	categories ports.CategoryRepository
	logger     zerolog.Logger
	now        func() time.Time
}

func NewArticleService(repo ports.ArticleRepository, categories ports.CategoryRepository, logger zerolog.Logger) *ArticleService {
	return &ArticleService{
		repo:       repo,
		categories: categories,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *ArticleService) List(ctx context.Context, filter ports.ListArticlesFilter) ([]*domain.Article, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	articles, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

func (s *ArticleService) Get(ctx context.Context, id domain.ID) (*domain.Article, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	return a, nil
}

// Create stores a new article with a fresh ID and zeroed counters.
func (s *ArticleService) Create(ctx context.Context, input ports.WriteArticleInput) (*domain.Article, error) {
	a := &domain.Article{
		ID:         domain.ID(uuid.NewString()),
		Title:      input.Title,
		Content:    input.Content,
		CategoryID: input.CategoryID,
		Category:   s.categoryName(ctx, input.CategoryID),
		Author:     authorOr(input.Author),
		UserID:     input.UserID,
		CreatedAt:  s.now(),
		Image:      input.Image,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error().Err(err).Msg("failed to create article")
		return nil, fmt.Errorf("create article: %w", err)
	}

	metrics.MockArticlesWrittenTotal.WithLabelValues("create").Inc()
	s.logger.Info().Str("article_id", a.ID.String()).Str("user_id", a.UserID.String()).Msg("article created")
	return a, nil
}

// Update overwrites the editable fields. Counters, flags, and authorship are
// kept from the stored record.
func (s *ArticleService) Update(ctx context.Context, id domain.ID, input ports.WriteArticleInput) (*domain.Article, error) {
	category := s.categoryName(ctx, input.CategoryID)
	a, err := s.repo.Update(ctx, id, func(a *domain.Article) {
		a.Title = input.Title
		a.Content = input.Content
		a.Image = input.Image
		if a.CategoryID != input.CategoryID {
			a.CategoryID = input.CategoryID
			a.Category = category
		}
	})
	if err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}

	metrics.MockArticlesWrittenTotal.WithLabelValues("update").Inc()
	s.logger.Info().Str("article_id", id.String()).Msg("article updated")
	return a, nil
}

func (s *ArticleService) Delete(ctx context.Context, id domain.ID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	metrics.MockArticlesWrittenTotal.WithLabelValues("delete").Inc()
	s.logger.Info().Str("article_id", id.String()).Msg("article deleted")
	return nil
}

// ToggleLike flips isLiked and moves likes by one. Likes never drop below 0.
func (s *ArticleService) ToggleLike(ctx context.Context, id domain.ID) (*domain.Article, error) {
	return s.toggle(ctx, "like", id, func(a *domain.Article) {
		a.IsLiked = !a.IsLiked
		if a.IsLiked {
			a.Likes++
		} else if a.Likes > 0 {
			a.Likes--
		}
	})
}

// ToggleBookmark flips isBookmarked.
func (s *ArticleService) ToggleBookmark(ctx context.Context, id domain.ID) (*domain.Article, error) {
	return s.toggle(ctx, "bookmark", id, func(a *domain.Article) {
		a.IsBookmarked = !a.IsBookmarked
	})
}

// Categories lists the categories served under /categories.
func (s *ArticleService) Categories(ctx context.Context) ([]domain.Category, error) {
	cats, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s *ArticleService) toggle(ctx context.Context, action string, id domain.ID, apply func(*domain.Article)) (*domain.Article, error) {
	a, err := s.repo.Update(ctx, id, apply)
	if err != nil {
		return nil, fmt.Errorf("%s article: %w", action, err)
	}
	metrics.MockArticlesWrittenTotal.WithLabelValues(action).Inc()
	return a, nil
}

// categoryName resolves the display name for id. Unknown categories leave the
// name empty; clients fall back to a default label.
func (s *ArticleService) categoryName(ctx context.Context, id domain.ID) string {
	if s.categories == nil || id == "" {
		return ""
	}
	cats, err := s.categories.ListCategories(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("category lookup failed")
		return ""
	}
	for _, c := range cats {
		if c.ID == id {
			return c.Name
		}
	}
	return ""
}

func authorOr(name string) string {
	if strings.TrimSpace(name) == "" {
		return anonymousAuthor
	}
	return name
}
