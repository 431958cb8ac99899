package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskboard/taskboard-api/internal/core/domain"
	"github.com/taskboard/taskboard-api/internal/core/ports"
)

// ContextKeyUser is the echo context key the authenticated user is stored
// under. Handlers read it through handler.CurrentUser.
const ContextKeyUser = "auth_user"

const unauthorizedMessage = "Not authorized to access this route"

// Auth is the access gate for protected routes. It extracts the bearer
// token, verifies its signature, checks it against the user's stored session
// token (revocation), and attaches the resolved user to the request context.
// Verification failures never touch the store.
func Auth(tokens ports.TokenService, users ports.UserRepository, sessions ports.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, unauthorizedMessage)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, unauthorizedMessage)
			}
			token := parts[1]

			userID, err := tokens.Verify(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, unauthorizedMessage)
			}

			ctx := c.Request().Context()
			user, err := users.FindByID(ctx, userID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, unauthorizedMessage)
			}

			// Revocation check: the presented token must still be the
			// user's current session. The cache is authoritative when
			// present; on a miss the persisted token field decides.
			current, err := sessions.Get(ctx, userID)
			if err != nil {
				if !errors.Is(err, domain.ErrSessionNotFound) {
					return err
				}
				current = user.Token
			}
			if current != token {
				return echo.NewHTTPError(http.StatusUnauthorized, unauthorizedMessage)
			}

			c.Set(ContextKeyUser, user)
			return next(c)
		}
	}
}
