package middleware

import (
	"net/http"

	"commerce-console/internal/session"

	"github.com/labstack/echo/v4"
)

// RequireSession guards console routes that need an authenticated session.
// Upstream token validity is the gateway's business; this only checks that
// someone is signed in at all.
func RequireSession(sessions *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, ok := sessions.Current()
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "sign in required")
			}
			c.Set("user_id", sess.UserID)
			return next(c)
		}
	}
}
