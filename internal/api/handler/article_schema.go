package handler

import (
	"github.com/quillpress/blog-client/internal/core/domain"
	"github.com/quillpress/blog-client/internal/core/ports"
)

// articleRequest is the body of POST /articles and PUT /articles/:id.
type articleRequest struct {
	Title      string    `json:"title"      validate:"required,max=200"`
	Content    string    `json:"content"    validate:"required"`
	CategoryID domain.ID `json:"categoryId" validate:"required"`
	Image      string    `json:"image"      validate:"omitempty,url"`
	Author     string    `json:"author"`
	UserID     domain.ID `json:"userId"`
}

// toInput maps the request onto the service input. A verified identity
// replaces whatever authorship the body claims.
func (r articleRequest) toInput(userID domain.ID, name string, verified bool) ports.WriteArticleInput {
	in := ports.WriteArticleInput{
		Title:      r.Title,
		Content:    r.Content,
		CategoryID: r.CategoryID,
		Image:      r.Image,
		Author:     r.Author,
		UserID:     r.UserID,
	}
	if verified {
		in.UserID = userID
		if name != "" {
			in.Author = name
		}
	}
	return in
}

// listResponse keeps empty collections encoded as [] rather than null.
func listResponse(articles []*domain.Article) []*domain.Article {
	if articles == nil {
		return []*domain.Article{}
	}
	return articles
}
