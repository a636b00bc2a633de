package core

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// TimeLayout is the wire format for all entity timestamps, UTC with
// millisecond precision and a literal Z suffix.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// NowFunc returns the current time. It is a variable so tests can freeze it.
var NowFunc = time.Now

// Now returns the current UTC time formatted with TimeLayout.
func Now() string {
	return FormatTime(NowFunc())
}

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a TimeLayout timestamp. RFC3339 timestamps with a
// different fractional precision are accepted as a fallback since some
// clients round-trip values through their own date libraries.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err == nil {
		return t, nil
	}
	if t, err2 := time.Parse(time.RFC3339, s); err2 == nil {
		return t, nil
	}
	return time.Time{}, errors.Wrapf(err, "parsing timestamp %q", s)
}

// Date is a calendar date with no time zone.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// TimeOfDay is a wall-clock time with no date and no time zone.
type TimeOfDay struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
	Nanos   int `json:"nanos"`
}

// CombineDateTime composes a Date and TimeOfDay into a single UTC instant.
func CombineDateTime(d Date, t TimeOfDay) time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, t.Hours, t.Minutes, t.Seconds, t.Nanos, time.UTC)
}

// IsPast reports whether the instant is strictly before the current time.
func IsPast(t time.Time) bool {
	return t.Before(NowFunc().UTC())
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}
