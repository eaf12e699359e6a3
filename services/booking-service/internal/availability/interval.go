package availability

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zone lookups must not depend on the host's zoneinfo

	"github.com/md-rashed-zaman/roombook/services/booking-service/internal/model"
)

var ErrInvalidTimeZone = errors.New("invalid time zone")

// Interval is the half-open range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// LoadZone resolves an IANA zone name. Empty and "Local" are rejected so a
// misconfigured building never silently follows the host clock.
func LoadZone(tzName string) (*time.Location, error) {
	name := strings.TrimSpace(tzName)
	if name == "" || name == "Local" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimeZone, tzName)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimeZone, tzName)
	}
	return loc, nil
}

// LocalInstant reads the wall clock of raw in tzName.
func LocalInstant(raw time.Time, tzName string) (time.Time, error) {
	loc, err := LoadZone(tzName)
	if err != nil {
		return time.Time{}, err
	}
	return inZone(raw, loc), nil
}

// IntervalOf returns [start, start+duration) with start read in tzName.
func IntervalOf(b model.Booking, tzName string) (Interval, error) {
	loc, err := LoadZone(tzName)
	if err != nil {
		return Interval{}, err
	}
	return bookingInterval(b, loc), nil
}

func bookingInterval(b model.Booking, loc *time.Location) Interval {
	start := inZone(b.StartDateTime, loc)
	return Interval{Start: start, End: start.Add(time.Duration(b.DurationInHours) * time.Hour)}
}

func inZone(wall time.Time, loc *time.Location) time.Time {
	return time.Date(wall.Year(), wall.Month(), wall.Day(), wall.Hour(), wall.Minute(), wall.Second(), wall.Nanosecond(), loc)
}

// Overlaps reports whether a and b share any instant. Intervals that only
// touch (a.End == b.Start) do not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Gap returns the whole hours from aEnd to bStart, or false when bStart is
// not at least an hour later.
func Gap(aEnd, bStart time.Time) (int, bool) {
	hours := int(bStart.Sub(aEnd) / time.Hour)
	if hours <= 0 {
		return 0, false
	}
	return hours, true
}

// Clip restricts iv to [lo, hi). It returns false when nothing is left.
func Clip(iv Interval, lo, hi time.Time) (Interval, bool) {
	if iv.Start.Before(lo) {
		iv.Start = lo
	}
	if iv.End.After(hi) {
		iv.End = hi
	}
	if !iv.Start.Before(iv.End) {
		return Interval{}, false
	}
	return iv, true
}
