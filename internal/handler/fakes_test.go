package handler

import (
	"context"
	"errors"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/campus-inventory/internal/model"
	"github.com/iliyamo/campus-inventory/internal/queue"
	"github.com/iliyamo/campus-inventory/internal/repository"
)

var errStoreDown = errors.New("store down")

// fakeCars keeps rows in memory and applies patches the way the COALESCE
// update does: only columns with a value change.
type fakeCars struct {
	mu      sync.Mutex
	rows    map[int64]model.Car
	nextID  int64
	updates int
	err     error
}

func newFakeCars(cars ...model.Car) *fakeCars {
	f := &fakeCars{rows: map[int64]model.Car{}}
	for _, c := range cars {
		f.rows[c.ID] = c
		if c.ID > f.nextID {
			f.nextID = c.ID
		}
	}
	return f
}

func (f *fakeCars) ListAll(context.Context) ([]model.Car, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.Car, 0, len(f.rows))
	for _, c := range f.rows {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCars) Create(_ context.Context, c *model.Car) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.nextID++
	c.ID = f.nextID
	f.rows[c.ID] = *c
	return c.ID, nil
}

func (f *fakeCars) Update(_ context.Context, id int64, p repository.Patch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.err != nil {
		return f.err
	}
	c, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	for k, v := range p.Values() {
		switch k {
		case "car_name":
			s := v.(string)
			c.CarName = &s
		case "brand":
			s := v.(string)
			c.Brand = &s
		case "price":
			n := v.(float64)
			c.Price = &n
		case "year":
			n := int(v.(int64))
			c.Year = &n
		case "colour":
			s := v.(string)
			c.Colour = &s
		case "car_image":
			s := v.(string)
			c.CarImage = &s
		}
	}
	f.rows[id] = c
	return nil
}

func (f *fakeCars) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeSpaces struct {
	mu      sync.Mutex
	rows    map[int64]model.StudySpace
	nextID  int64
	updates int
	err     error
}

func newFakeSpaces(spaces ...model.StudySpace) *fakeSpaces {
	f := &fakeSpaces{rows: map[int64]model.StudySpace{}}
	for _, s := range spaces {
		f.rows[s.ID] = s
		if s.ID > f.nextID {
			f.nextID = s.ID
		}
	}
	return f
}

func (f *fakeSpaces) ListAll(context.Context) ([]model.StudySpace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.StudySpace, 0, len(f.rows))
	for _, s := range f.rows {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSpaces) Create(_ context.Context, s *model.StudySpace) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.nextID++
	s.ID = f.nextID
	f.rows[s.ID] = *s
	return s.ID, nil
}

func (f *fakeSpaces) Update(_ context.Context, id int64, p repository.Patch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.err != nil {
		return f.err
	}
	s, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	for k, v := range p.Values() {
		switch k {
		case "space_name":
			str := v.(string)
			s.SpaceName = &str
		case "location":
			str := v.(string)
			s.Location = &str
		case "capacity":
			n := int(v.(int64))
			s.Capacity = &n
		case "zone_type":
			str := v.(string)
			s.ZoneType = &str
		case "is_available":
			s.IsAvailable = v.(bool)
		case "booked_by":
			str := v.(string)
			s.BookedBy = &str
		case "booking_time":
			t, _ := time.Parse("2006-01-02 15:04:05", v.(string))
			s.BookingTime = &t
		case "space_image":
			str := v.(string)
			s.SpaceImage = &str
		}
	}
	f.rows[id] = s
	return nil
}

func (f *fakeSpaces) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakePublisher struct {
	events []queue.BookingChangedEvent
	err    error
}

func (p *fakePublisher) PublishBookingChanged(_ context.Context, ev queue.BookingChangedEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

type fakeUsers struct {
	users map[string]model.User
	err   error
}

func (f fakeUsers) GetByUsername(_ context.Context, username string) (model.User, error) {
	if f.err != nil {
		return model.User{}, f.err
	}
	u, ok := f.users[username]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func strPtr(s string) *string { return &s }

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewRequestValidator()
	return e
}

// do sends one JSON request through e.
func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
