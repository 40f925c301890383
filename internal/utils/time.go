package utils

import (
	"strconv"
	"strings"
	"time"
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04:05"
	layoutClock    = "2006/1/2 15:04:05"
)

// ParseDate parses YYYY-MM-DD in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), loc)
}

// FormatDate formats t as YYYY-MM-DD in its own location.
func FormatDate(t time.Time) string {
	return t.Format(layoutDate)
}

// FormatDateTime formats t as "YYYY-MM-DD HH:MM:SS".
func FormatDateTime(t time.Time) string {
	return t.Format(layoutDateTime)
}

// FormatClock is the readout shown by the kiosk clock.
func FormatClock(t time.Time) string {
	return t.Format(layoutClock)
}

// ParseHM splits "HH:MM" into hour and minute. Empty input means midnight.
func ParseHM(s string) (int, int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, nil
	}
	hh, mm, _ := strings.Cut(s, ":")
	h, err := strconv.Atoi(strings.TrimSpace(hh))
	if err != nil {
		return 0, 0, err
	}
	m := 0
	if strings.TrimSpace(mm) != "" {
		m, err = strconv.Atoi(strings.TrimSpace(mm))
		if err != nil {
			return 0, 0, err
		}
	}
	return h, m, nil
}

// CombineDateHM builds the instant for a YYYY-MM-DD date and an HH:MM time of day in loc.
// An unreadable time of day falls back to midnight.
func CombineDateHM(date, hm string, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	h, m, err := ParseHM(hm)
	if err != nil {
		h, m = 0, 0
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, loc), nil
}
