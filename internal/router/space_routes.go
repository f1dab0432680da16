package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/campus-inventory/internal/handler"
	"github.com/iliyamo/campus-inventory/internal/middleware"
	"github.com/iliyamo/campus-inventory/internal/model"
	"github.com/iliyamo/campus-inventory/internal/repository"
)

const spacesListRoute = "/allspaces"

// RegisterSpaces registers the study space endpoints.  Creating and
// deleting spaces is admin-only; editing is open to students, who may only
// touch the booking fields.
func RegisterSpaces(e *echo.Echo, h *handler.SpaceHandler, d Deps) {
	e.GET(spacesListRoute, h.ListSpaces, middleware.NewRedisCache(d.Config.Cache, d.Redis))

	invalidate := middleware.InvalidateCache(d.Config.Cache, d.Redis, spacesListRoute)
	auth := middleware.JWTAuth(d.Tokens)

	adminOnly := []echo.MiddlewareFunc{auth, middleware.RequireRole(model.RoleAdmin), invalidate}
	e.POST("/addspace", h.AddSpace, adminOnly...)
	e.DELETE("/deletespace/:id", h.DeleteSpace, adminOnly...)

	e.PUT("/editspace/:id", h.EditSpace,
		auth,
		middleware.RequireRole(model.RoleStudent, model.RoleAdmin),
		middleware.RestrictFields(model.RoleStudent, "students can only book or unbook spaces", repository.BookingColumns...),
		invalidate,
	)
}
