package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/quillpress/blog-client/internal/core/domain"
)

func TestCard_ToggleLike_ConfirmAndRevert(t *testing.T) {
	c := NewCard(domain.Article{ID: "1", Likes: 3})

	c.ToggleLike()
	if got := c.Article(); !got.IsLiked || got.Likes != 4 {
		t.Fatalf("expected tentative like with 4 likes, got %+v", got)
	}
	if c.Confirmed().Likes != 3 || !c.Pending() {
		t.Fatal("confirmed state must be untouched while pending")
	}

	c.Revert()
	if got := c.Article(); got.IsLiked || got.Likes != 3 || c.Pending() {
		t.Fatalf("expected revert to confirmed state, got %+v", got)
	}

	c.ToggleLike()
	c.Confirm(domain.Article{ID: "1", Likes: 10, IsLiked: true})
	if got := c.Article(); got.Likes != 10 || c.Pending() {
		t.Fatalf("expected server echo to win, got %+v", got)
	}
}

func TestCard_ToggleLike_Unlike(t *testing.T) {
	c := NewCard(domain.Article{ID: "1", Likes: 0, IsLiked: true})

	c.ToggleLike()
	if got := c.Article(); got.IsLiked || got.Likes != 0 {
		t.Fatalf("likes must never go below zero, got %+v", got)
	}
}

func TestCard_ToggleBookmark(t *testing.T) {
	c := NewCard(domain.Article{ID: "1"})
	c.ToggleBookmark()
	if !c.Article().IsBookmarked {
		t.Fatal("expected tentative bookmark")
	}
	c.Revert()
	if c.Article().IsBookmarked {
		t.Fatal("expected bookmark reverted")
	}
}

func TestCard_ReadingTime(t *testing.T) {
	cases := []struct {
		words int
		want  int
	}{
		{0, 1},
		{1, 1},
		{200, 1},
		{201, 2},
		{1000, 5},
	}
	for _, tc := range cases {
		content := strings.TrimSpace(strings.Repeat("word ", tc.words))
		c := NewCard(domain.Article{Content: content})
		if got := c.ReadingTime(); got != tc.want {
			t.Errorf("%d words: expected %d min, got %d", tc.words, tc.want, got)
		}
	}
}

func TestCard_Excerpt(t *testing.T) {
	long := strings.Repeat("é", 200)
	c := NewCard(domain.Article{Content: long})
	if got := c.Excerpt(); got != strings.Repeat("é", 150)+"..." {
		t.Fatalf("expected 150 runes and an ellipsis, got %d runes", len([]rune(got)))
	}

	short := NewCard(domain.Article{Content: "hi"})
	if got := short.Excerpt(); got != "hi..." {
		t.Fatalf("expected %q, got %q", "hi...", got)
	}
}

func TestCard_Fallbacks(t *testing.T) {
	c := NewCard(domain.Article{})
	if c.AuthorName() != "Anonymous" || c.CategoryName() != "General" {
		t.Fatalf("unexpected fallbacks: %q %q", c.AuthorName(), c.CategoryName())
	}
	named := NewCard(domain.Article{Author: "Ada", Category: "Tech"})
	if named.AuthorName() != "Ada" || named.CategoryName() != "Tech" {
		t.Fatal("expected stored names")
	}
}

func TestCard_CanEdit(t *testing.T) {
	c := NewCard(domain.Article{ID: "1", UserID: "u1"})

	if !c.CanEdit(domain.User{ID: "u1"}, true) {
		t.Error("owner must be able to edit")
	}
	if c.CanEdit(domain.User{ID: "u2"}, true) {
		t.Error("other users must not edit")
	}
	if c.CanEdit(domain.User{}, false) {
		t.Error("anonymous readers must not edit")
	}
	if NewCard(domain.Article{ID: "2"}).CanEdit(domain.User{}, true) {
		t.Error("an unowned article is editable by nobody")
	}
}

func TestRelativeDate(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		at   time.Time
		want string
	}{
		{now, "Today"},
		{now.Add(-time.Hour), "Today"},
		{now.Add(-23 * time.Hour), "Today"},
		{now.Add(-30 * time.Hour), "Yesterday"},
		{now.Add(-49 * time.Hour), "2 days ago"},
		{now.Add(-6 * 24 * time.Hour), "6 days ago"},
		{now.Add(-8 * 24 * time.Hour), "1 week ago"},
		{now.Add(-20 * 24 * time.Hour), "2 weeks ago"},
		{now.Add(-45 * 24 * time.Hour), "Feb 14, 2026"},
		{time.Time{}, ""},
	}
	for _, tc := range cases {
		if got := RelativeDate(tc.at, now); got != tc.want {
			t.Errorf("%v: expected %q, got %q", tc.at, tc.want, got)
		}
	}
}

func TestCard_Share(t *testing.T) {
	c := NewCard(domain.Article{ID: "42", Content: strings.Repeat("a", 120)})
	if got := c.ShareURL("https://blog.example/"); got != "https://blog.example/articles/42" {
		t.Fatalf("unexpected share url: %s", got)
	}
	if got := c.ShareText(); len(got) != 103 {
		t.Fatalf("expected 100 chars and an ellipsis, got %d", len(got))
	}
}
