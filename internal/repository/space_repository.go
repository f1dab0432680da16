package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/iliyamo/campus-inventory/internal/model"
)

// Booking columns are the only ones a student may change.
const (
	ColIsAvailable = "is_available"
	ColBookedBy    = "booked_by"
	ColBookingTime = "booking_time"
)

// BookingColumns is the student allow-list for space edits.
var BookingColumns = []string{ColIsAvailable, ColBookedBy, ColBookingTime}

// SpaceColumns lists the updatable columns of `study_spaces` in statement order.
var SpaceColumns = []Column{
	{Name: "space_name", Decode: StringValue},
	{Name: "location", Decode: StringValue},
	{Name: "capacity", Decode: IntValue},
	{Name: "zone_type", Decode: StringValue},
	{Name: ColIsAvailable, Decode: BoolValue},
	{Name: ColBookedBy, Decode: StringValue},
	{Name: ColBookingTime, Decode: TimestampValue},
	{Name: "space_image", Decode: StringValue},
}

// ResolveSpacePatch resolves a sparse study space update body.
func ResolveSpacePatch(fields map[string]json.RawMessage) (Patch, error) {
	return Resolve(fields, SpaceColumns)
}

// SpaceRepo provides CRUD over the `study_spaces` table.
type SpaceRepo struct {
	db *sql.DB
}

func NewSpaceRepo(db *sql.DB) *SpaceRepo {
	return &SpaceRepo{db: db}
}

// ListAll returns every study space ordered by id.
func (r *SpaceRepo) ListAll(ctx context.Context) ([]model.StudySpace, error) {
	const q = `SELECT id, space_name, location, capacity, zone_type, is_available, booked_by, booking_time, space_image
	           FROM study_spaces ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.StudySpace, 0)
	for rows.Next() {
		var s model.StudySpace
		if err := rows.Scan(&s.ID, &s.SpaceName, &s.Location, &s.Capacity, &s.ZoneType,
			&s.IsAvailable, &s.BookedBy, &s.BookingTime, &s.SpaceImage); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a study space and returns the generated id.  The caller
// decides IsAvailable; handlers default it to true.
func (r *SpaceRepo) Create(ctx context.Context, s *model.StudySpace) (int64, error) {
	const q = `INSERT INTO study_spaces
	           (space_name, location, capacity, zone_type, is_available, booked_by, booking_time, space_image)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.SpaceName, s.Location, s.Capacity, s.ZoneType,
		s.IsAvailable, s.BookedBy, s.BookingTime, s.SpaceImage)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	s.ID = id
	return id, nil
}

// Update applies a sparse update.  ErrNotFound when no row has the id.
func (r *SpaceRepo) Update(ctx context.Context, id int64, p Patch) error {
	q, args := coalesceUpdate("study_spaces", p, id)
	return execAffecting(ctx, r.db, q, args...)
}

// Delete removes a study space by id.  ErrNotFound when no row has the id.
func (r *SpaceRepo) Delete(ctx context.Context, id int64) error {
	return execAffecting(ctx, r.db, `DELETE FROM study_spaces WHERE id = ?`, id)
}
