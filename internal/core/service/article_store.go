package service

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/quillpress/blog-client/internal/core/domain"
	"github.com/quillpress/blog-client/internal/core/ports"
	"github.com/quillpress/blog-client/internal/metrics"
)

// StoreStatus is the lifecycle state of the article store.
type StoreStatus string

const (
	StatusIdle    StoreStatus = "idle"
	StatusLoading StoreStatus = "loading"
	StatusReady   StoreStatus = "ready"
	StatusErrored StoreStatus = "errored"
)

// Notification texts emitted by the article store.
const (
	msgLoadFailed     = "Failed to load articles"
	msgGetFailed      = "Failed to load article"
	msgCreated        = "Article added successfully"
	msgCreateFailed   = "Failed to add article"
	msgUpdated        = "Article updated successfully"
	msgUpdateFailed   = "Failed to update article"
	msgDeleted        = "Article deleted successfully"
	msgDeleteFailed   = "Failed to delete article"
	msgSearchFailed   = "Search failed"
	msgFilterFailed   = "Failed to filter articles"
	msgLikeFailed     = "Failed to like article"
	msgBookmarkFailed = "Failed to bookmark article"
)

// ArticleSnapshot is a point-in-time copy of the store state. It shares no
// memory with the store.
type ArticleSnapshot struct {
	Status   StoreStatus
	Articles []domain.Article
	// Err is the message of the last failure, empty after a successful list.
	Err  string
	Busy bool
}

// Find returns the article with id, if present.
func (s ArticleSnapshot) Find(id domain.ID) (domain.Article, bool) {
	for _, a := range s.Articles {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Article{}, false
}

// ArticleStore is the single source of truth for the displayed articles. It
// is safe for concurrent use; network calls happen outside the lock.
type ArticleStore struct {
	transport ports.ArticleTransport
	notifier  ports.Notifier
	logger    zerolog.Logger

	mu       sync.Mutex
	status   StoreStatus
	articles []domain.Article
	err      string
	// gen is the generation of the newest list operation started.
	gen      uint64
	inflight int
}

func NewArticleStore(transport ports.ArticleTransport, notifier ports.Notifier, logger zerolog.Logger) *ArticleStore {
	return &ArticleStore{
		transport: transport,
		notifier:  notifier,
		logger:    logger,
		status:    StatusIdle,
		articles:  []domain.Article{},
	}
}

// Snapshot returns a deep copy of the current state.
func (s *ArticleStore) Snapshot() ArticleSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ArticleSnapshot{
		Status:   s.status,
		Articles: slices.Clone(s.articles),
		Err:      s.err,
		Busy:     s.inflight > 0,
	}
}

// FetchAll replaces the collection with the full server list. On failure the
// collection is cleared.
func (s *ArticleStore) FetchAll(ctx context.Context) error {
	gen := s.beginList()
	articles, err := s.transport.List(ctx)
	return s.finishList(ctx, gen, "list", articles, err, msgLoadFailed, true)
}

// Search replaces the collection with the articles matching query. The query
// is forwarded as is. On failure the previous collection is kept.
func (s *ArticleStore) Search(ctx context.Context, query string) error {
	gen := s.beginList()
	articles, err := s.transport.Search(ctx, query)
	return s.finishList(ctx, gen, "search", articles, err, msgSearchFailed, false)
}

// FilterByCategory replaces the collection with the articles of one category.
// On failure the previous collection is kept.
func (s *ArticleStore) FilterByCategory(ctx context.Context, categoryID domain.ID) error {
	gen := s.beginList()
	articles, err := s.transport.FilterByCategory(ctx, categoryID)
	return s.finishList(ctx, gen, "filter", articles, err, msgFilterFailed, false)
}

func (s *ArticleStore) beginList() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.inflight++
	s.status = StatusLoading
	return s.gen
}

// finishList applies a list result unless a newer list operation started
// meanwhile or the caller went away.
func (s *ArticleStore) finishList(ctx context.Context, gen uint64, op string, articles []domain.Article, err error, failMsg string, clearOnError bool) error {
	s.mu.Lock()
	s.inflight--
	if gen != s.gen || ctx.Err() != nil {
		// The last operation out settles the status, whichever generation it is.
		if s.inflight == 0 && s.status == StatusLoading {
			s.status = statusAfter(s.err)
		}
		s.mu.Unlock()
		metrics.StaleResponsesTotal.WithLabelValues(op).Inc()
		s.logger.Debug().Str("operation", op).Uint64("generation", gen).Msg("stale list response dropped")
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return nil
	}

	if err != nil {
		s.status = StatusErrored
		s.err = domain.MessageOf(err)
		if clearOnError {
			s.articles = []domain.Article{}
		}
		s.observe()
		s.mu.Unlock()

		s.logger.Error().Err(err).Str("operation", op).Msg("list operation failed")
		s.notify(ports.Failure(failMsg))
		return err
	}

	if articles == nil {
		articles = []domain.Article{}
	}
	s.articles = dedupe(articles)
	s.status = StatusReady
	s.err = ""
	s.observe()
	n := len(s.articles)
	s.mu.Unlock()

	s.logger.Debug().Str("operation", op).Int("count", n).Msg("articles loaded")
	return nil
}

// Get fetches one article from the server and reconciles it in place when it
// is displayed.
func (s *ArticleStore) Get(ctx context.Context, id domain.ID) (domain.Article, error) {
	article, err := s.transport.Get(ctx, id)
	if ctx.Err() != nil {
		return domain.Article{}, ctx.Err()
	}
	if err != nil {
		s.fail("get", err, msgGetFailed)
		return domain.Article{}, err
	}
	s.replace(article)
	return article, nil
}

// Create sends draft and appends the created record.
func (s *ArticleStore) Create(ctx context.Context, draft domain.ArticleDraft) (domain.Article, error) {
	article, err := s.transport.Create(ctx, draft)
	if ctx.Err() != nil {
		return domain.Article{}, ctx.Err()
	}
	if err != nil {
		s.fail("create", err, msgCreateFailed)
		return domain.Article{}, err
	}

	s.mu.Lock()
	s.articles = slices.DeleteFunc(s.articles, func(a domain.Article) bool { return a.ID == article.ID })
	s.articles = append(s.articles, article)
	s.observe()
	s.mu.Unlock()

	s.logger.Info().Str("article_id", article.ID.String()).Msg("article created")
	s.notify(ports.Success(msgCreated))
	return article, nil
}

// Update sends draft and replaces the matching record in place. A record that
// is not displayed is not appended.
func (s *ArticleStore) Update(ctx context.Context, id domain.ID, draft domain.ArticleDraft) (domain.Article, error) {
	article, err := s.transport.Update(ctx, id, draft)
	if ctx.Err() != nil {
		return domain.Article{}, ctx.Err()
	}
	if err != nil {
		s.fail("update", err, msgUpdateFailed)
		return domain.Article{}, err
	}

	s.replaceAt(id, article)
	s.logger.Info().Str("article_id", id.String()).Msg("article updated")
	s.notify(ports.Success(msgUpdated))
	return article, nil
}

// Remove deletes the article. Removing an article that is not displayed is not
// an error; a server rejection is.
func (s *ArticleStore) Remove(ctx context.Context, id domain.ID) error {
	err := s.transport.Delete(ctx, id)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		s.fail("delete", err, msgDeleteFailed)
		return err
	}

	s.mu.Lock()
	s.articles = slices.DeleteFunc(s.articles, func(a domain.Article) bool { return a.ID == id })
	s.observe()
	s.mu.Unlock()

	s.logger.Info().Str("article_id", id.String()).Msg("article deleted")
	s.notify(ports.Success(msgDeleted))
	return nil
}

// Like toggles the like flag on the server and applies its echo.
func (s *ArticleStore) Like(ctx context.Context, id domain.ID) (domain.Article, error) {
	return s.toggle(ctx, "like", id, s.transport.Like, msgLikeFailed)
}

// Bookmark toggles the bookmark flag on the server and applies its echo.
func (s *ArticleStore) Bookmark(ctx context.Context, id domain.ID) (domain.Article, error) {
	return s.toggle(ctx, "bookmark", id, s.transport.Bookmark, msgBookmarkFailed)
}

func (s *ArticleStore) toggle(ctx context.Context, op string, id domain.ID, call func(context.Context, domain.ID) (domain.Article, error), failMsg string) (domain.Article, error) {
	article, err := call(ctx, id)
	if ctx.Err() != nil {
		return domain.Article{}, ctx.Err()
	}
	if err != nil {
		s.fail(op, err, failMsg)
		return domain.Article{}, err
	}
	s.replaceAt(id, article)
	return article, nil
}

// fail records a mutation failure. The status is left alone: only list
// operations move the state machine.
func (s *ArticleStore) fail(op string, err error, msg string) {
	s.mu.Lock()
	s.err = domain.MessageOf(err)
	s.mu.Unlock()

	s.logger.Error().Err(err).Str("operation", op).Msg("article operation failed")
	s.notify(ports.Failure(msg))
}

func (s *ArticleStore) replace(article domain.Article) {
	s.replaceAt(article.ID, article)
}

// replaceAt swaps every record with id for article, keeping positions.
func (s *ArticleStore) replaceAt(id domain.ID, article domain.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.articles {
		if s.articles[i].ID == id {
			s.articles[i] = article
		}
	}
}

func (s *ArticleStore) notify(n ports.Notification) {
	if s.notifier != nil {
		s.notifier.Notify(n)
	}
}

// observe must be called with mu held.
func (s *ArticleStore) observe() {
	metrics.StoreArticles.Set(float64(len(s.articles)))
}

func statusAfter(lastErr string) StoreStatus {
	if lastErr != "" {
		return StatusErrored
	}
	return StatusReady
}

// dedupe keeps the first occurrence of every ID so the collection never holds
// two records with the same identifier.
func dedupe(articles []domain.Article) []domain.Article {
	seen := make(map[domain.ID]struct{}, len(articles))
	out := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if a.ID != "" {
			if _, ok := seen[a.ID]; ok {
				continue
			}
			seen[a.ID] = struct{}{}
		}
		out = append(out, a)
	}
	return out
}
