package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/campus-inventory/internal/handler"
	"github.com/iliyamo/campus-inventory/internal/middleware"
	"github.com/iliyamo/campus-inventory/internal/model"
)

const carsListRoute = "/allcars"

// RegisterCars registers the vehicle endpoints.  Listing is public and
// cached.  Writes require the admin role unless VehicleWritesPublic is set.
func RegisterCars(e *echo.Echo, h *handler.CarHandler, d Deps) {
	e.GET(carsListRoute, h.ListCars, middleware.NewRedisCache(d.Config.Cache, d.Redis))

	writes := []echo.MiddlewareFunc{}
	if !d.Config.VehicleWritesPublic {
		writes = append(writes, middleware.JWTAuth(d.Tokens), middleware.RequireRole(model.RoleAdmin))
	}
	writes = append(writes, middleware.InvalidateCache(d.Config.Cache, d.Redis, carsListRoute))

	e.POST("/addcar", h.AddCar, writes...)
	e.PUT("/editcar/:id", h.EditCar, writes...)
	e.DELETE("/deletecar/:id", h.DeleteCar, writes...)
}
