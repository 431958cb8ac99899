package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskboard/taskboard-api/internal/api/handler"
	"github.com/taskboard/taskboard-api/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders unmatched routes as a plain-text "not found" body.
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders every other error as the failure envelope {success, Error}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		// The router's own 404 is the catch-all for unmatched paths.
		if errors.Is(err, echo.ErrNotFound) {
			_ = c.String(http.StatusNotFound, "not found")
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, handler.Fail(msg))
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, auth middleware rejections, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Field-level input failures raised by the service layer.
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Msg
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "Email already registered"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, "Invalid credential"
	case errors.Is(err, domain.ErrWrongPassword):
		return http.StatusUnauthorized, "Incorrect Password"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, "Task not found"
	case errors.Is(err, domain.ErrNotLoggedIn):
		return http.StatusBadRequest, "User is not logged in"
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "Not authorized to access this route"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
