package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskboard/taskboard-api/internal/api/middleware"
	"github.com/taskboard/taskboard-api/internal/core/domain"
)

// CurrentUser extracts the identity attached by the Auth middleware. Its
// presence proves the gate ran; a protected handler reached without it is a
// wiring error reported as 401.
func CurrentUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get(middleware.ContextKeyUser).(*domain.User)
	if !ok || user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication identity")
	}
	return user, nil
}
