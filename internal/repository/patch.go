package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// sqlDateTime is the literal format MySQL accepts for DATETIME columns.
const sqlDateTime = "2006-01-02 15:04:05"

// Column describes one updatable column and how a raw JSON value becomes
// the argument bound for it.  Decode is never called for JSON null.
type Column struct {
	Name   string
	Decode func(raw json.RawMessage) (any, error)
}

// Patch is a resolved sparse update: the subset of a table's updatable
// columns the client sent, with their decoded values.  A column sent as
// null is present but carries no value, which the COALESCE update treats
// the same as an omitted column.
type Patch struct {
	cols    []Column
	present map[string]bool
	values  map[string]any
}

// Resolve turns a decoded JSON object into a Patch over cols.  Keys that are
// not updatable columns are ignored.  When none of cols is present the
// result is ErrNoFieldsToUpdate.
func Resolve(fields map[string]json.RawMessage, cols []Column) (Patch, error) {
	p := Patch{
		cols:    cols,
		present: make(map[string]bool, len(cols)),
		values:  make(map[string]any, len(cols)),
	}
	for _, col := range cols {
		raw, ok := fields[col.Name]
		if !ok {
			continue
		}
		p.present[col.Name] = true
		if isNull(raw) {
			continue
		}
		v, err := col.Decode(raw)
		if err != nil {
			return Patch{}, &FieldError{Field: col.Name, Err: err}
		}
		if v != nil {
			p.values[col.Name] = v
		}
	}
	if len(p.present) == 0 {
		return Patch{}, ErrNoFieldsToUpdate
	}
	return p, nil
}

// Touches reports whether the client sent any of the named columns,
// including as null.
func (p Patch) Touches(names ...string) bool {
	for _, n := range names {
		if p.present[n] {
			return true
		}
	}
	return false
}

// Value returns the new value for a column and whether one was given.
func (p Patch) Value(name string) (any, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Values returns a copy of the columns that will actually change.
func (p Patch) Values() map[string]any {
	out := make(map[string]any, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// coalesceUpdate builds an UPDATE that overwrites every updatable column
// with its bound value or, when that value is NULL, with itself.
func coalesceUpdate(table string, p Patch, id int64) (string, []any) {
	sets := make([]string, 0, len(p.cols))
	args := make([]any, 0, len(p.cols)+1)
	for _, col := range p.cols {
		sets = append(sets, fmt.Sprintf("%s = COALESCE(?, %s)", col.Name, col.Name))
		args = append(args, p.values[col.Name])
	}
	args = append(args, id)
	q := "UPDATE " + table + " SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	return q, args
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// ---- decoders ----

// StringValue accepts a JSON string.
func StringValue(raw json.RawMessage) (any, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, errors.New("expected a string")
	}
	return s, nil
}

// NumberValue accepts a JSON number or a numeric string.
func NumberValue(raw json.RawMessage) (any, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, nil
		}
	}
	return nil, errors.New("expected a number")
}

// IntValue accepts a whole JSON number or an integer string.
func IntValue(raw json.RawMessage) (any, error) {
	v, err := NumberValue(raw)
	if err != nil {
		return nil, errors.New("expected an integer")
	}
	f := v.(float64)
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return nil, errors.New("expected an integer")
	}
	return int64(f), nil
}

// BoolValue accepts true/false or the 0/1 integers MySQL clients often send.
func BoolValue(raw json.RawMessage) (any, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil && (n == 0 || n == 1) {
		return n == 1, nil
	}
	return nil, errors.New("expected a boolean")
}

// TimestampValue normalizes a timestamp-like value into a DATETIME literal.
// Anything it cannot parse becomes nil, which leaves the column unchanged.
func TimestampValue(raw json.RawMessage) (any, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if lit, ok := NormalizeTimestamp(s); ok {
			return lit, nil
		}
		return nil, nil
	}
	var secs float64
	if err := json.Unmarshal(raw, &secs); err == nil && secs > 0 && secs < maxDateTimeUnix {
		if t := time.Unix(int64(secs), 0).UTC(); inDateTimeRange(t) {
			return t.Format(sqlDateTime), nil
		}
	}
	return nil, nil
}

// maxDateTimeUnix is 9999-12-31 23:59:59 UTC plus one second.
const maxDateTimeUnix = 253402300800

// inDateTimeRange reports whether t fits MySQL's DATETIME range.
func inDateTimeRange(t time.Time) bool {
	y := t.Year()
	return y >= 1000 && y <= 9999
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	sqlDateTime,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses s with the accepted layouts.  Layouts without a
// zone are read as UTC.  Times outside the DATETIME range are rejected.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return t, inDateTimeRange(t)
		}
	}
	return time.Time{}, false
}

// NormalizeTimestamp returns s as a UTC DATETIME literal.
func NormalizeTimestamp(s string) (string, bool) {
	t, ok := ParseTimestamp(s)
	if !ok {
		return "", false
	}
	return t.Format(sqlDateTime), true
}
