package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ID is an opaque server-assigned identifier. Backends disagree on whether
// identifiers are JSON strings or numbers, so both decode into the same value.
type ID string

// String returns the identifier text.
func (id ID) String() string { return string(id) }

// UnmarshalJSON accepts a JSON string, a JSON number, or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*id = ID(strconv.FormatInt(i, 10))
		return nil
	}
	*id = ID(n.String())
	return nil
}

// Article is one blog post as the API returns it.
type Article struct {
	ID           ID        `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	CategoryID   ID        `json:"categoryId"`
	Category     string    `json:"category,omitempty"`
	Author       string    `json:"author,omitempty"`
	UserID       ID        `json:"userId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	Likes        int       `json:"likes"`
	IsLiked      bool      `json:"isLiked"`
	IsBookmarked bool      `json:"isBookmarked"`
	CommentCount int       `json:"commentCount"`
	Image        string    `json:"image,omitempty"`
}

// Normalize clamps counters that must never be negative.
func (a Article) Normalize() Article {
	if a.Likes < 0 {
		a.Likes = 0
	}
	if a.CommentCount < 0 {
		a.CommentCount = 0
	}
	return a
}

// ArticleDraft is the payload sent on create and update. The validate tags are
// consumed by the forms layer; the stores never validate.
type ArticleDraft struct {
	Title      string `json:"title"      validate:"required"`
	Content    string `json:"content"    validate:"required"`
	CategoryID ID     `json:"categoryId" validate:"required"`
	Image      string `json:"image,omitempty" validate:"omitempty,url"`
	// Author and UserID attribute a new article. Servers that verify bearer
	// tokens take them from the token instead.
	Author string `json:"author,omitempty"`
	UserID ID     `json:"userId,omitempty"`
}

// DraftFrom builds an edit draft pre-filled from an existing article.
func DraftFrom(a Article) ArticleDraft {
	return ArticleDraft{
		Title:      a.Title,
		Content:    a.Content,
		CategoryID: a.CategoryID,
		Image:      a.Image,
	}
}

// Category is a read-only article category.
type Category struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}
