package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/quillpress/blog-client/internal/core/domain"
)

// RenderCard writes the summary of card as it appears in a list.
func RenderCard(w io.Writer, p Palette, card *Card, now time.Time) {
	a := card.Article()
	_, _ = p.Title.Fprintf(w, "%s  ", a.Title)
	_, _ = p.Muted.Fprintf(w, "#%s\n", a.ID)
	_, _ = p.Muted.Fprintf(w, "  %s · %s · %s · %d min read\n",
		card.AuthorName(), card.CategoryName(), card.RelativeDate(now), card.ReadingTime())
	_, _ = fmt.Fprintf(w, "  %s\n", card.Excerpt())
	_, _ = p.Accent.Fprintf(w, "  %s %d  %s  💬 %d\n", heart(a.IsLiked), a.Likes, bookmark(a.IsBookmarked), a.CommentCount)
}

// RenderList writes every article of a snapshot, or a placeholder.
func RenderList(w io.Writer, p Palette, articles []domain.Article, now time.Time) {
	if len(articles) == 0 {
		_, _ = p.Muted.Fprintln(w, "No articles found")
		return
	}
	for i, a := range articles {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		RenderCard(w, p, NewCard(a), now)
	}
}

// RenderDetail writes the full article.
func RenderDetail(w io.Writer, p Palette, card *Card, now time.Time) {
	a := card.Article()
	_, _ = p.Title.Fprintln(w, a.Title)
	_, _ = p.Muted.Fprintf(w, "%s · %s · %s · %d min read\n\n",
		card.AuthorName(), card.CategoryName(), card.RelativeDate(now), card.ReadingTime())
	if a.Image != "" {
		_, _ = p.Muted.Fprintf(w, "[image] %s\n\n", a.Image)
	}
	_, _ = fmt.Fprintln(w, a.Content)
	_, _ = fmt.Fprintln(w)
	_, _ = p.Accent.Fprintf(w, "%s %d  %s  💬 %d\n", heart(a.IsLiked), a.Likes, bookmark(a.IsBookmarked), a.CommentCount)
}

func heart(liked bool) string {
	if liked {
		return "♥"
	}
	return "♡"
}

func bookmark(marked bool) string {
	if marked {
		return "★"
	}
	return "☆"
}
