package booking

import (
	"fmt"
	"strings"
	"time"
)

var (
	zonedLayouts = []string{
		time.RFC3339,
		"2006-01-02T15:04Z07:00",
	}
	naiveLayouts = []string{
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		"2006-01-02",
	}
)

// ParseDateTime accepts ISO-8601 timestamps with or without an offset.
// hasOffset tells the caller whether the value is an absolute instant or a
// wall clock to be read in the room's zone; naive values come back in UTC.
func ParseDateTime(raw string) (t time.Time, hasOffset bool, err error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true, nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, false, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("invalid ISO-8601 datetime %q", raw)
}

func onTheHour(t time.Time) bool {
	return t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

func atMidnight(t time.Time) bool {
	return t.Hour() == 0 && onTheHour(t)
}
