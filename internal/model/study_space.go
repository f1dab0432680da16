package model

import "time"

// StudySpace represents a bookable room or desk stored in `study_spaces`.
//
// Fields:
//
//	ID          – primary key identifier.
//	SpaceName   – display name.
//	Location    – building / floor description.
//	Capacity    – number of seats.
//	ZoneType    – free-form zone label (quiet, group, ...).
//	IsAvailable – false while booked; defaults to true on insert.
//	BookedBy    – informal reference to the booking user (no foreign key).
//	BookingTime – when the booking starts (nullable).
//	SpaceImage  – optional image URL.
type StudySpace struct {
	ID          int64      `json:"id"`
	SpaceName   *string    `json:"space_name"`
	Location    *string    `json:"location"`
	Capacity    *int       `json:"capacity"`
	ZoneType    *string    `json:"zone_type"`
	IsAvailable bool       `json:"is_available"`
	BookedBy    *string    `json:"booked_by"`
	BookingTime *time.Time `json:"booking_time"`
	SpaceImage  *string    `json:"space_image"`
}
