package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/campus-inventory/internal/model"
)

func carRoutes(store *fakeCars) *echo.Echo {
	e := newEcho()
	h := NewCarHandler(store, nil)
	e.GET("/allcars", h.ListCars)
	e.POST("/addcar", h.AddCar)
	e.PUT("/editcar/:id", h.EditCar)
	e.DELETE("/deletecar/:id", h.DeleteCar)
	return e
}

func sampleCar() model.Car {
	price := 15000.0
	year := 2019
	return model.Car{
		ID:       1,
		CarName:  strPtr("Corolla"),
		Brand:    strPtr("Toyota"),
		Price:    &price,
		Year:     &year,
		Colour:   strPtr("red"),
		CarImage: strPtr("https://img/corolla.png"),
	}
}

func TestListCars(t *testing.T) {
	e := carRoutes(newFakeCars(sampleCar()))
	rec := do(e, http.MethodGet, "/allcars", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var cars []model.Car
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cars))
	require.Len(t, cars, 1)
	assert.Equal(t, "Corolla", *cars[0].CarName)
}

func TestListCarsEmptyIsArray(t *testing.T) {
	rec := do(carRoutes(newFakeCars()), http.MethodGet, "/allcars", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListCarsStoreFailure(t *testing.T) {
	store := newFakeCars()
	store.err = errStoreDown
	rec := do(carRoutes(store), http.MethodGet, "/allcars", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "store down")
}

func TestAddCar(t *testing.T) {
	store := newFakeCars()
	rec := do(carRoutes(store), http.MethodPost, "/addcar",
		`{"car_name":"Civic","brand":"Honda","price":21000,"year":2021,"colour":"blue"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"Car Civic added successfully","id":1}`, rec.Body.String())

	got := store.rows[1]
	assert.Equal(t, "Honda", *got.Brand)
	assert.Nil(t, got.CarImage)
}

func TestAddCarValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing name", `{"brand":"Honda"}`, "car_name is required"},
		{"negative price", `{"car_name":"x","price":-1}`, "price must be at least 0"},
		{"year too old", `{"car_name":"x","year":1700}`, "year must be at least 1886"},
		{"not json", `{`, "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeCars()
			rec := do(carRoutes(store), http.MethodPost, "/addcar", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
			assert.Empty(t, store.rows)
		})
	}
}

func TestEditCarKeepsOmittedFields(t *testing.T) {
	store := newFakeCars(sampleCar())
	e := carRoutes(store)

	rec := do(e, http.MethodPut, "/editcar/1", `{"price":12500.5,"colour":null,"unknown":"x"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Car id 1 updated successfully"}`, rec.Body.String())

	want := sampleCar()
	price := 12500.5
	want.Price = &price
	assert.Equal(t, want, store.rows[1])
}

func TestEditCarEmptyPayload(t *testing.T) {
	for _, body := range []string{``, `{}`, `{"id":9,"owner":"x"}`} {
		store := newFakeCars(sampleCar())
		rec := do(carRoutes(store), http.MethodPut, "/editcar/1", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.JSONEq(t, `{"error":"Nothing to update"}`, rec.Body.String())
		assert.Zero(t, store.updates, "store must not be touched")
	}
}

func TestEditCarErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
		code int
	}{
		{"missing id", "/editcar/99", `{"brand":"Kia"}`, http.StatusNotFound},
		{"bad id", "/editcar/abc", `{"brand":"Kia"}`, http.StatusBadRequest},
		{"zero id", "/editcar/0", `{"brand":"Kia"}`, http.StatusBadRequest},
		{"wrong type", "/editcar/1", `{"year":"soon"}`, http.StatusBadRequest},
		{"array body", "/editcar/1", `[1,2]`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(carRoutes(newFakeCars(sampleCar())), http.MethodPut, tt.path, tt.body)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestEditCarStoreFailure(t *testing.T) {
	store := newFakeCars(sampleCar())
	store.err = errStoreDown
	rec := do(carRoutes(store), http.MethodPut, "/editcar/1", `{"brand":"Kia"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Server error - could not update car id 1"}`, rec.Body.String())
}

func TestDeleteCar(t *testing.T) {
	store := newFakeCars(sampleCar())
	e := carRoutes(store)

	rec := do(e, http.MethodDelete, "/deletecar/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Car id 1 deleted successfully"}`, rec.Body.String())
	assert.Empty(t, store.rows)

	rec = do(e, http.MethodDelete, "/deletecar/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Car not found"}`, rec.Body.String())
}
