package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole returns a middleware that enforces that the authenticated
// user has one of the specified roles.  It assumes JWTAuth ran first; a
// request without a role is treated like one with the wrong role and
// receives 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !allowed[RoleFrom(c)] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden: insufficient role"})
			}
			return next(c)
		}
	}
}
