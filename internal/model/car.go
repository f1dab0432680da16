package model

// Car represents a row in the `cars` table.  Every column except the id is
// nullable in storage, so the optional fields are pointers and come back
// as JSON null when unset.
type Car struct {
	ID       int64    `json:"id"`        // cars.id
	CarName  *string  `json:"car_name"`  // cars.car_name
	Brand    *string  `json:"brand"`     // cars.brand
	Price    *float64 `json:"price"`     // cars.price
	Year     *int     `json:"year"`      // cars.year
	Colour   *string  `json:"colour"`    // cars.colour
	CarImage *string  `json:"car_image"` // cars.car_image
}
