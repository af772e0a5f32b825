package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quillpress/blog-client/internal/core/domain"
)

// OwnerLookup returns the ID of the user who wrote an article.
type OwnerLookup func(ctx context.Context, id domain.ID) (domain.ID, error)

// OwnerOnly lets a request through when the authenticated user wrote the
// article named by the :id path parameter. Articles without an owner are open
// to every authenticated user. It must run after Auth.
func OwnerOnly(lookup OwnerLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get(ContextUserID).(string)

			owner, err := lookup(c.Request().Context(), domain.ID(c.Param("id")))
			if err != nil {
				return err
			}
			if owner != "" && owner.String() != userID {
				return c.JSON(http.StatusForbidden, map[string]string{"message": "You are not authorized to edit this article"})
			}
			return next(c)
		}
	}
}
