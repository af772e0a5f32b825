package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quillpress/blog-client/internal/core/domain"
	"github.com/quillpress/blog-client/internal/core/ports"
)

// ArticleHandler serves the /articles and /categories collections. Domain
// errors are returned as-is for the HTTP error handler to map.
type ArticleHandler struct {
	service ports.ArticleService
}

func NewArticleHandler(service ports.ArticleService) *ArticleHandler {
	return &ArticleHandler{service: service}
}

// List handles GET /articles?q=&categoryId=.
func (h *ArticleHandler) List(c echo.Context) error {
	articles, err := h.service.List(c.Request().Context(), ports.ListArticlesFilter{
		Query:      c.QueryParam("q"),
		CategoryID: domain.ID(c.QueryParam("categoryId")),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse(articles))
}

// Get handles GET /articles/:id.
func (h *ArticleHandler) Get(c echo.Context) error {
	a, err := h.service.Get(c.Request().Context(), domain.ID(c.Param("id")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// Create handles POST /articles.
func (h *ArticleHandler) Create(c echo.Context) error {
	req, err := bindArticle(c)
	if err != nil {
		return err
	}

	userID, name, verified := ctxIdentity(c)
	a, err := h.service.Create(c.Request().Context(), req.toInput(userID, name, verified))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

// Update handles PUT /articles/:id.
func (h *ArticleHandler) Update(c echo.Context) error {
	req, err := bindArticle(c)
	if err != nil {
		return err
	}

	userID, name, verified := ctxIdentity(c)
	a, err := h.service.Update(c.Request().Context(), domain.ID(c.Param("id")), req.toInput(userID, name, verified))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// Delete handles DELETE /articles/:id. The body is an empty object.
func (h *ArticleHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), domain.ID(c.Param("id"))); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{})
}

// Like handles PATCH /articles/:id/like.
func (h *ArticleHandler) Like(c echo.Context) error {
	a, err := h.service.ToggleLike(c.Request().Context(), domain.ID(c.Param("id")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// Bookmark handles PATCH /articles/:id/bookmark.
func (h *ArticleHandler) Bookmark(c echo.Context) error {
	a, err := h.service.ToggleBookmark(c.Request().Context(), domain.ID(c.Param("id")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// Categories handles GET /categories.
func (h *ArticleHandler) Categories(c echo.Context) error {
	cats, err := h.service.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	if cats == nil {
		cats = []domain.Category{}
	}
	return c.JSON(http.StatusOK, cats)
}

// Owner reports who wrote an article; it backs the OwnerOnly middleware.
func (h *ArticleHandler) Owner(ctx context.Context, id domain.ID) (domain.ID, error) {
	a, err := h.service.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return a.UserID, nil
}

func bindArticle(c echo.Context) (articleRequest, error) {
	var req articleRequest
	if err := c.Bind(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return req, nil
}
