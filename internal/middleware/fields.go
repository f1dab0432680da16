package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

// maxRestrictedBody bounds how much of a body RestrictFields buffers.
const maxRestrictedBody = 1 << 20

// RestrictFields limits which top-level JSON fields a given role may send.
// When the caller has that role, every key of the request body must be in
// allowed; otherwise the request is rejected with 403 and message.  Other
// roles pass through untouched.  The body is restored for the handler.
func RestrictFields(role, message string, allowed ...string) echo.MiddlewareFunc {
	permitted := make(map[string]bool, len(allowed))
	for _, f := range allowed {
		permitted[f] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if RoleFrom(c) != role {
				return next(c)
			}
			req := c.Request()
			if req.Body == nil {
				return next(c)
			}
			buf, err := io.ReadAll(io.LimitReader(req.Body, maxRestrictedBody+1))
			_ = req.Body.Close()
			if err != nil || len(buf) > maxRestrictedBody {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
			}
			req.Body = io.NopCloser(bytes.NewReader(buf))

			if len(bytes.TrimSpace(buf)) == 0 {
				return next(c)
			}
			var fields map[string]json.RawMessage
			if err := json.Unmarshal(buf, &fields); err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
			}
			for name := range fields {
				if !permitted[name] {
					return c.JSON(http.StatusForbidden, echo.Map{"error": message})
				}
			}
			return next(c)
		}
	}
}
