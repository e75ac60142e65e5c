package utils

import (
	"fmt"
	"time"
)

const (
	ClockLayout = "15:04"
	DateLayout  = "2006-01-02"
)

// ParseTimeOfDay validates a 24-hour "HH:MM" string and returns it normalized
func ParseTimeOfDay(s string) (string, error) {
	if len(s) != len(ClockLayout) {
		return "", fmt.Errorf("time of day %q must be in HH:MM format", s)
	}
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return "", fmt.Errorf("time of day %q must be in HH:MM format: %w", s, err)
	}
	return t.Format(ClockLayout), nil
}

// TimeToMinutes converts time string to minutes since midnight
func TimeToMinutes(timeStr string) int {
	t, _ := time.Parse(ClockLayout, timeStr)
	return t.Hour()*60 + t.Minute()
}

// ClockTime formats t as minute-precision "HH:MM"
func ClockTime(t time.Time) string {
	return t.Format(ClockLayout)
}

// CalendarDate formats the calendar day of t
func CalendarDate(t time.Time) string {
	return t.Format(DateLayout)
}

// StartOfDay returns midnight of t's day in t's location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
