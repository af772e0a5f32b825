// Package ui holds the terminal presentation helpers: view models that read
// from the stores and intents that write back into them.
package ui

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/quillpress/blog-client/internal/core/domain"
)

const (
	wordsPerMinute = 200
	excerptRunes   = 150
	shareRunes     = 100
	ellipsis       = "..."

	defaultAuthor   = "Anonymous"
	defaultCategory = "General"
)

// Card is the view model of one article. It keeps the last confirmed server
// state apart from a tentative local overlay, so an optimistic change can be
// confirmed or reverted without touching the confirmed record.
type Card struct {
	mu        sync.Mutex
	confirmed domain.Article
	tentative *domain.Article
}

func NewCard(a domain.Article) *Card {
	return &Card{confirmed: a}
}

// ID is the article identifier.
func (c *Card) ID() domain.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.confirmed.ID
}

// Article returns what should be displayed: the overlay when one is pending,
// the confirmed record otherwise.
func (c *Card) Article() domain.Article {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view()
}

// Confirmed returns the last server-confirmed record.
func (c *Card) Confirmed() domain.Article {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.confirmed
}

// Pending reports whether a tentative change is displayed.
func (c *Card) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tentative != nil
}

// ToggleLike flips the like flag locally and moves the counter by one.
func (c *Card) ToggleLike() {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.view()
	next.IsLiked = !next.IsLiked
	if next.IsLiked {
		next.Likes++
	} else if next.Likes > 0 {
		next.Likes--
	}
	c.tentative = &next
}

// ToggleBookmark flips the bookmark flag locally.
func (c *Card) ToggleBookmark() {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.view()
	next.IsBookmarked = !next.IsBookmarked
	c.tentative = &next
}

// Confirm replaces the confirmed state with the server record and drops the
// overlay.
func (c *Card) Confirm(a domain.Article) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmed = a
	c.tentative = nil
}

// Revert drops the overlay.
func (c *Card) Revert() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tentative = nil
}

func (c *Card) view() domain.Article {
	if c.tentative != nil {
		return *c.tentative
	}
	return c.confirmed
}

// ReadingTime is the estimated reading time in whole minutes, at least 1.
func (c *Card) ReadingTime() int {
	words := len(strings.Fields(c.Article().Content))
	return int(math.Ceil(float64(max(words, 1)) / wordsPerMinute))
}

// Excerpt is the first 150 characters of the content followed by "...".
func (c *Card) Excerpt() string {
	return truncate(c.Article().Content, excerptRunes) + ellipsis
}

// AuthorName falls back to "Anonymous".
func (c *Card) AuthorName() string {
	if a := strings.TrimSpace(c.Article().Author); a != "" {
		return a
	}
	return defaultAuthor
}

// CategoryName falls back to "General".
func (c *Card) CategoryName() string {
	if cat := strings.TrimSpace(c.Article().Category); cat != "" {
		return cat
	}
	return defaultCategory
}

// CanEdit reports whether user owns the article. Anonymous readers own
// nothing.
func (c *Card) CanEdit(user domain.User, loggedIn bool) bool {
	owner := c.Confirmed().UserID
	return loggedIn && owner != "" && user.ID == owner
}

// RelativeDate renders the creation date relative to now.
func (c *Card) RelativeDate(now time.Time) string {
	return RelativeDate(c.Article().CreatedAt, now)
}

// ShareURL is the link to the article under base, e.g.
// "https://blog.example/articles/42".
func (c *Card) ShareURL(base string) string {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return strings.TrimRight(base, "/") + "/articles/" + url.PathEscape(c.ID().String())
	}
	return u.JoinPath("articles", c.ID().String()).String()
}

// ShareText is the short teaser sent alongside a shared link.
func (c *Card) ShareText() string {
	return truncate(c.Article().Content, shareRunes) + ellipsis
}

// RelativeDate renders t relative to now in whole days: "Today", "Yesterday",
// "N days ago", "N weeks ago", and the calendar date after a month.
func RelativeDate(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	diff := now.Sub(t)
	if diff < 0 {
		diff = -diff
	}
	days := int(diff.Hours() / 24)

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		weeks := days / 7
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	default:
		return t.Format("Jan 2, 2006")
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
