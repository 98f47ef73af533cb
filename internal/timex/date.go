package timex

import "time"

// DateKeyLayout is the calendar day key format used by mood entries.
const DateKeyLayout = "2006-01-02"

// DateKey formats t as a calendar day key in t's location.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ParseDateKey parses a calendar day key in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateKeyLayout, key, loc)
}

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time
