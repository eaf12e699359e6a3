package availability

import (
	"fmt"
	"time"
)

// Day is a calendar date with no zone attached. Each room anchors it to its
// own local midnight.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

const dayLayout = "2006-01-02"

// DayOf takes the calendar date of t as shown on its own clock.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

func ParseDay(raw string) (Day, error) {
	t, err := time.Parse(dayLayout, raw)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day %q: want YYYY-MM-DD", raw)
	}
	return DayOf(t), nil
}

func (d Day) String() string {
	return d.NaiveStart().Format(dayLayout)
}

// Start is local midnight of d in loc.
func (d Day) Start(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// NaiveStart is midnight of d as a stored wall clock.
func (d Day) NaiveStart() time.Time {
	return d.Start(time.UTC)
}

func (d Day) Next() Day {
	return DayOf(d.NaiveStart().AddDate(0, 0, 1))
}
