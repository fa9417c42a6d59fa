package model

import (
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04"
)

// ParseDateInput parses a strict YYYY-MM-DD date into local midnight.
// Malformed, empty or out-of-calendar input returns ok == false.
func ParseDateInput(s string) (time.Time, bool) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	year, ok1 := atoi(parts[0])
	month, ok2 := atoi(parts[1])
	day, ok3 := atoi(parts[2])
	if !ok1 || !ok2 || !ok3 || year < 1 || month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	if day > DaysIn(time.Month(month), year) {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), true
}

// ParseTimeInput parses a strict HH:MM time of day into hour and minute
func ParseTimeInput(s string) (hour, minute int, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, ok1 := atoi(parts[0])
	m, ok2 := atoi(parts[1])
	if !ok1 || !ok2 || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

// CombineDateTime sets the time of day on a date
func CombineDateTime(date time.Time, hour, minute int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())
}

// FormatDatetimeDisplay renders YYYY-MM-DD for midnight and YYYY-MM-DD HH:MM otherwise
func FormatDatetimeDisplay(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(DateLayout)
	}
	return t.Format(DateTimeLayout)
}

// FormatDue renders an optional due time, empty when unset
func FormatDue(due *time.Time) string {
	if due == nil {
		return ""
	}
	return FormatDatetimeDisplay(*due)
}

// DaysIn returns the number of days in month m of year
func DaysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// atoi accepts plain digits only; signs and spaces are rejected
func atoi(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
