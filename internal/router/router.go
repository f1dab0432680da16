package router // package router defines how HTTP routes are registered for the API

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/campus-inventory/internal/config"
	"github.com/iliyamo/campus-inventory/internal/handler"
	"github.com/iliyamo/campus-inventory/internal/middleware"
)

// Deps is everything the routes need, built once in main.
type Deps struct {
	Config config.Config
	Logger *slog.Logger
	Redis  *redis.Client // nil disables caching and the shared rate limiter
	Tokens middleware.TokenVerifier
	DB     handler.Pinger

	Auth   *handler.AuthHandler
	Cars   *handler.CarHandler
	Spaces *handler.SpaceHandler
}

// New builds the Echo instance with global middleware and every route.
func New(d Deps) *echo.Echo {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(d.Logger))
	if len(d.Config.AllowedOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins: d.Config.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
		}))
	}
	e.Use(middleware.NewTokenBucket(d.Config.RateLimit, d.Redis, d.Tokens))

	RegisterRoutes(e, d.DB)
	RegisterAuth(e, d.Auth)
	RegisterCars(e, d.Cars, d)
	RegisterSpaces(e, d.Spaces, d)
	return e
}

// RegisterRoutes registers the health check used by load balancers.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers the login endpoint.  It is public.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	e.POST("/login", a.Login)
}
