package ui

import (
	"context"
	"errors"

	"github.com/quillpress/blog-client/internal/core/domain"
)

// ErrNotOwner is returned when a reader edits or deletes someone else's article.
var ErrNotOwner = errors.New("not the article owner")

// Prompt is shown instead of running an intent the reader may not perform
// yet. No network call is made when a Prompt is returned.
type Prompt struct {
	Message string
	cause   error
}

func (p *Prompt) Error() string { return p.Message }

func (p *Prompt) Unwrap() error { return p.cause }

// IsPrompt reports whether err is a Prompt and returns it.
func IsPrompt(err error) (*Prompt, bool) {
	var p *Prompt
	ok := errors.As(err, &p)
	return p, ok
}

// ArticleIntents is the part of the article store the actions write to.
type ArticleIntents interface {
	Get(ctx context.Context, id domain.ID) (domain.Article, error)
	Create(ctx context.Context, draft domain.ArticleDraft) (domain.Article, error)
	Update(ctx context.Context, id domain.ID, draft domain.ArticleDraft) (domain.Article, error)
	Remove(ctx context.Context, id domain.ID) error
	Like(ctx context.Context, id domain.ID) (domain.Article, error)
	Bookmark(ctx context.Context, id domain.ID) (domain.Article, error)
}

// SessionGuard is the part of the session store the actions consult.
type SessionGuard interface {
	RequireUser(action string) (domain.User, error)
}

// Actions runs reader intents: session guard first, then the store.
type Actions struct {
	articles ArticleIntents
	session  SessionGuard
}

func NewActions(articles ArticleIntents, session SessionGuard) *Actions {
	return &Actions{articles: articles, session: session}
}

// Like toggles the like on card optimistically: the card shows the change at
// once, then takes the server echo or reverts. The returned message is a
// confirmation suitable for display.
func (a *Actions) Like(ctx context.Context, card *Card) (string, error) {
	if _, err := a.guard("like articles"); err != nil {
		return "", err
	}
	wasLiked := card.Article().IsLiked
	card.ToggleLike()

	updated, err := a.articles.Like(ctx, card.ID())
	if err != nil {
		card.Revert()
		return "", err
	}
	card.Confirm(updated)
	if wasLiked {
		return "Like removed", nil
	}
	return "Article liked", nil
}

// Bookmark toggles the bookmark on card the same way Like does.
func (a *Actions) Bookmark(ctx context.Context, card *Card) (string, error) {
	if _, err := a.guard("bookmark articles"); err != nil {
		return "", err
	}
	wasBookmarked := card.Article().IsBookmarked
	card.ToggleBookmark()

	updated, err := a.articles.Bookmark(ctx, card.ID())
	if err != nil {
		card.Revert()
		return "", err
	}
	card.Confirm(updated)
	if wasBookmarked {
		return "Bookmark removed", nil
	}
	return "Article bookmarked", nil
}

// Create publishes draft as the current user.
func (a *Actions) Create(ctx context.Context, draft domain.ArticleDraft) (domain.Article, error) {
	user, err := a.guard("create articles")
	if err != nil {
		return domain.Article{}, err
	}
	draft.UserID = user.ID
	draft.Author = user.Name
	return a.articles.Create(ctx, draft)
}

// Edit loads the article for editing. Only its owner may edit it.
func (a *Actions) Edit(ctx context.Context, id domain.ID) (domain.ArticleDraft, error) {
	user, err := a.guard("edit articles")
	if err != nil {
		return domain.ArticleDraft{}, err
	}
	article, err := a.articles.Get(ctx, id)
	if err != nil {
		return domain.ArticleDraft{}, err
	}
	if !NewCard(article).CanEdit(user, true) {
		return domain.ArticleDraft{}, &Prompt{Message: "You are not authorized to edit this article", cause: ErrNotOwner}
	}
	return domain.DraftFrom(article), nil
}

// Save stores an edited draft.
func (a *Actions) Save(ctx context.Context, id domain.ID, draft domain.ArticleDraft) (domain.Article, error) {
	if _, err := a.guard("edit articles"); err != nil {
		return domain.Article{}, err
	}
	return a.articles.Update(ctx, id, draft)
}

// Delete removes card's article. Only its owner may delete it.
func (a *Actions) Delete(ctx context.Context, card *Card) error {
	user, err := a.guard("delete articles")
	if err != nil {
		return err
	}
	if !card.CanEdit(user, true) {
		return &Prompt{Message: "You are not authorized to delete this article", cause: ErrNotOwner}
	}
	return a.articles.Remove(ctx, card.ID())
}

func (a *Actions) guard(action string) (domain.User, error) {
	user, err := a.session.RequireUser(action)
	if err != nil {
		return domain.User{}, &Prompt{Message: err.Error(), cause: err}
	}
	return user, nil
}
