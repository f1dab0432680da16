package middleware

// identity.go keeps the context keys written by JWTAuth in one place.
// Downstream middleware and handlers read them through these helpers.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/campus-inventory/internal/utils"
)

const (
	ctxClaims   = "claims"
	ctxUserID   = "user_id"
	ctxUsername = "username"
	ctxRole     = "role"
)

func setIdentity(c echo.Context, cl *utils.Claims) {
	c.Set(ctxClaims, cl)
	c.Set(ctxUserID, cl.UserID)
	c.Set(ctxUsername, cl.Username)
	c.Set(ctxRole, cl.Role)
}

// ClaimsFrom returns the verified claims of the current request, if any.
func ClaimsFrom(c echo.Context) (*utils.Claims, bool) {
	cl, ok := c.Get(ctxClaims).(*utils.Claims)
	return cl, ok && cl != nil
}

// RoleFrom returns the authenticated role or "" for anonymous requests.
func RoleFrom(c echo.Context) string {
	role, _ := c.Get(ctxRole).(string)
	return role
}

// currentUserID identifies the caller for rate limit keys.
func currentUserID(c echo.Context) string {
	if id, ok := c.Get(ctxUserID).(int64); ok {
		return strconv.FormatInt(id, 10)
	}
	return "anon"
}
