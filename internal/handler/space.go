package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/campus-inventory/internal/middleware"
	"github.com/iliyamo/campus-inventory/internal/model"
	"github.com/iliyamo/campus-inventory/internal/queue"
	"github.com/iliyamo/campus-inventory/internal/repository"
)

// SpaceStore is the persistence the study space endpoints need.
type SpaceStore interface {
	ListAll(ctx context.Context) ([]model.StudySpace, error)
	Create(ctx context.Context, s *model.StudySpace) (int64, error)
	Update(ctx context.Context, id int64, p repository.Patch) error
	Delete(ctx context.Context, id int64) error
}

// BookingPublisher announces booking changes.  A nil publisher disables
// events.
type BookingPublisher interface {
	PublishBookingChanged(ctx context.Context, event queue.BookingChangedEvent) error
}

// SpaceHandler serves the study space endpoints.
type SpaceHandler struct {
	Spaces    SpaceStore
	Publisher BookingPublisher
	Logger    *slog.Logger
}

func NewSpaceHandler(spaces SpaceStore, pub BookingPublisher, logger *slog.Logger) *SpaceHandler {
	return &SpaceHandler{Spaces: spaces, Publisher: pub, Logger: logger}
}

type spaceReq struct {
	SpaceName   *string `json:"space_name" validate:"required,max=255"`
	Location    *string `json:"location" validate:"omitempty,max=255"`
	Capacity    *int    `json:"capacity" validate:"omitempty,gte=0"`
	ZoneType    *string `json:"zone_type" validate:"omitempty,max=64"`
	IsAvailable *bool   `json:"is_available"`
	BookedBy    *string `json:"booked_by" validate:"omitempty,max=255"`
	BookingTime *string `json:"booking_time"`
	SpaceImage  *string `json:"space_image" validate:"omitempty,max=2048"`
}

// ListSpaces handles GET /allspaces.
func (h *SpaceHandler) ListSpaces(c echo.Context) error {
	spaces, err := h.Spaces.ListAll(c.Request().Context())
	if err != nil {
		return serverError(c, h.Logger, "could not list spaces", err)
	}
	return c.JSON(http.StatusOK, spaces)
}

// AddSpace handles POST /addspace.  is_available defaults to true.
func (h *SpaceHandler) AddSpace(c echo.Context) error {
	var req spaceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	s := &model.StudySpace{
		SpaceName:   req.SpaceName,
		Location:    req.Location,
		Capacity:    req.Capacity,
		ZoneType:    req.ZoneType,
		IsAvailable: true,
		BookedBy:    req.BookedBy,
		SpaceImage:  req.SpaceImage,
	}
	if req.IsAvailable != nil {
		s.IsAvailable = *req.IsAvailable
	}
	if req.BookingTime != nil {
		if t, ok := repository.ParseTimestamp(*req.BookingTime); ok {
			s.BookingTime = &t
		}
	}
	id, err := h.Spaces.Create(c.Request().Context(), s)
	if err != nil {
		return serverError(c, h.Logger, "could not add space "+*req.SpaceName, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": fmt.Sprintf("Space %s added successfully", *req.SpaceName),
		"id":      id,
	})
}

// EditSpace handles PUT /editspace/:id.  Students reach it only after
// RestrictFields has limited them to the booking columns.
func (h *SpaceHandler) EditSpace(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	fields, err := decodeFields(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	patch, err := repository.ResolveSpacePatch(fields)
	if err != nil {
		return patchError(c, err)
	}
	ctx := c.Request().Context()
	if err := h.Spaces.Update(ctx, id, patch); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Space not found"})
		}
		return serverError(c, h.Logger, fmt.Sprintf("could not update space id %d", id), err)
	}
	if h.Publisher != nil && patch.Touches(repository.BookingColumns...) {
		ev := bookingEvent(c, id, patch)
		if err := h.Publisher.PublishBookingChanged(ctx, ev); err != nil {
			loggerOrDefault(h.Logger).WarnContext(ctx, "booking event not published",
				"space_id", id, "action", ev.Action, "error", err)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": fmt.Sprintf("Space id %d updated successfully", id)})
}

// DeleteSpace handles DELETE /deletespace/:id.
func (h *SpaceHandler) DeleteSpace(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Spaces.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Space not found"})
		}
		return serverError(c, h.Logger, fmt.Sprintf("could not delete space id %d", id), err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": fmt.Sprintf("Space id %d deleted successfully", id)})
}

// bookingEvent describes an applied patch.  Marking a space unavailable is
// a booking, marking it available a release; anything else is an update.
func bookingEvent(c echo.Context, id int64, p repository.Patch) queue.BookingChangedEvent {
	ev := queue.BookingChangedEvent{
		SpaceID:   id,
		Action:    queue.ActionUpdated,
		Role:      middleware.RoleFrom(c),
		ChangedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if cl, ok := middleware.ClaimsFrom(c); ok {
		ev.ChangedBy = cl.Username
	}
	if v, ok := p.Value(repository.ColIsAvailable); ok {
		avail := v.(bool)
		ev.IsAvailable = &avail
		if avail {
			ev.Action = queue.ActionReleased
		} else {
			ev.Action = queue.ActionBooked
		}
	}
	if v, ok := p.Value(repository.ColBookedBy); ok {
		s := v.(string)
		ev.BookedBy = &s
	}
	if v, ok := p.Value(repository.ColBookingTime); ok {
		s := v.(string)
		ev.BookingTime = &s
	}
	return ev
}
