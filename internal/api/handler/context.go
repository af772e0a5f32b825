package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/quillpress/blog-client/internal/api/middleware"
	"github.com/quillpress/blog-client/internal/core/domain"
)

// ctxIdentity returns the user verified by the Auth middleware. ok is false
// when the route runs without authentication.
func ctxIdentity(c echo.Context) (userID domain.ID, name string, ok bool) {
	id, _ := c.Get(middleware.ContextUserID).(string)
	if id == "" {
		return "", "", false
	}
	name, _ = c.Get(middleware.ContextName).(string)
	return domain.ID(id), name, true
}
