package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/campus-inventory/internal/model"
	"github.com/iliyamo/campus-inventory/internal/repository"
)

// CarStore is the persistence the vehicle endpoints need.
type CarStore interface {
	ListAll(ctx context.Context) ([]model.Car, error)
	Create(ctx context.Context, c *model.Car) (int64, error)
	Update(ctx context.Context, id int64, p repository.Patch) error
	Delete(ctx context.Context, id int64) error
}

// CarHandler serves the vehicle inventory endpoints.
type CarHandler struct {
	Cars   CarStore
	Logger *slog.Logger
}

func NewCarHandler(cars CarStore, logger *slog.Logger) *CarHandler {
	return &CarHandler{Cars: cars, Logger: logger}
}

type carReq struct {
	CarName  *string  `json:"car_name" validate:"required,max=255"`
	Brand    *string  `json:"brand" validate:"omitempty,max=255"`
	Price    *float64 `json:"price" validate:"omitempty,gte=0"`
	Year     *int     `json:"year" validate:"omitempty,gte=1886,lte=2100"`
	Colour   *string  `json:"colour" validate:"omitempty,max=64"`
	CarImage *string  `json:"car_image" validate:"omitempty,max=2048"`
}

// ListCars handles GET /allcars.
func (h *CarHandler) ListCars(c echo.Context) error {
	cars, err := h.Cars.ListAll(c.Request().Context())
	if err != nil {
		return serverError(c, h.Logger, "could not list cars", err)
	}
	return c.JSON(http.StatusOK, cars)
}

// AddCar handles POST /addcar.  The id is generated by the store.
func (h *CarHandler) AddCar(c echo.Context) error {
	var req carReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	car := &model.Car{
		CarName:  req.CarName,
		Brand:    req.Brand,
		Price:    req.Price,
		Year:     req.Year,
		Colour:   req.Colour,
		CarImage: req.CarImage,
	}
	id, err := h.Cars.Create(c.Request().Context(), car)
	if err != nil {
		return serverError(c, h.Logger, "could not add car "+*req.CarName, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": fmt.Sprintf("Car %s added successfully", *req.CarName),
		"id":      id,
	})
}

// EditCar handles PUT /editcar/:id.  Only the fields present in the body
// change; see repository.Resolve.
func (h *CarHandler) EditCar(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	fields, err := decodeFields(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	patch, err := repository.ResolveCarPatch(fields)
	if err != nil {
		return patchError(c, err)
	}
	if err := h.Cars.Update(c.Request().Context(), id, patch); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Car not found"})
		}
		return serverError(c, h.Logger, fmt.Sprintf("could not update car id %d", id), err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": fmt.Sprintf("Car id %d updated successfully", id)})
}

// DeleteCar handles DELETE /deletecar/:id.
func (h *CarHandler) DeleteCar(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Cars.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Car not found"})
		}
		return serverError(c, h.Logger, fmt.Sprintf("could not delete car id %d", id), err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": fmt.Sprintf("Car id %d deleted successfully", id)})
}
