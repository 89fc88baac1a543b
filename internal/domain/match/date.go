package match

import (
	"strings"
	"time"
)

// DateLayout is the day format used in match keys and exports.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	DateLayout,
	"02/01/2006",
	"02/01/06",
}

// ParseDate accepts a time value or a date string in one of the provider
// layouts and returns its calendar day as midnight UTC.
func ParseDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return time.Time{}, false
		}
		return Day(d), true
	case *time.Time:
		if d == nil {
			return time.Time{}, false
		}
		return ParseDate(*d)
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return Day(t), true
			}
		}
	}
	return time.Time{}, false
}

// Day returns midnight UTC of t's calendar day in t's own location, so
// "2024-05-01T01:00:00+02:00" stays on 2024-05-01.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
