package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/iliyamo/campus-inventory/internal/model"
)

// CarColumns lists the updatable columns of `cars` in statement order.
var CarColumns = []Column{
	{Name: "car_name", Decode: StringValue},
	{Name: "brand", Decode: StringValue},
	{Name: "price", Decode: NumberValue},
	{Name: "year", Decode: IntValue},
	{Name: "colour", Decode: StringValue},
	{Name: "car_image", Decode: StringValue},
}

// ResolveCarPatch resolves a sparse car update body.
func ResolveCarPatch(fields map[string]json.RawMessage) (Patch, error) {
	return Resolve(fields, CarColumns)
}

// CarRepo provides CRUD over the `cars` table.
type CarRepo struct {
	db *sql.DB // db is the shared connection pool
}

// NewCarRepo constructs a CarRepo with the given DB handle.
func NewCarRepo(db *sql.DB) *CarRepo {
	return &CarRepo{db: db}
}

// ListAll returns every car ordered by id.
func (r *CarRepo) ListAll(ctx context.Context) ([]model.Car, error) {
	const q = `SELECT id, car_name, brand, price, year, colour, car_image FROM cars ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Car, 0)
	for rows.Next() {
		var c model.Car
		if err := rows.Scan(&c.ID, &c.CarName, &c.Brand, &c.Price, &c.Year, &c.Colour, &c.CarImage); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a car and returns the generated id.
func (r *CarRepo) Create(ctx context.Context, c *model.Car) (int64, error) {
	const q = `INSERT INTO cars (car_name, brand, price, year, colour, car_image) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.CarName, c.Brand, c.Price, c.Year, c.Colour, c.CarImage)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	c.ID = id
	return id, nil
}

// Update applies a sparse update.  ErrNotFound when no row has the id.
func (r *CarRepo) Update(ctx context.Context, id int64, p Patch) error {
	q, args := coalesceUpdate("cars", p, id)
	return execAffecting(ctx, r.db, q, args...)
}

// Delete removes a car by id.  ErrNotFound when no row has the id.
func (r *CarRepo) Delete(ctx context.Context, id int64) error {
	return execAffecting(ctx, r.db, `DELETE FROM cars WHERE id = ?`, id)
}

// execAffecting runs a single statement and maps zero affected rows to
// ErrNotFound.
func execAffecting(ctx context.Context, db *sql.DB, q string, args ...any) error {
	res, err := db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
