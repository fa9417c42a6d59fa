package model

import "time"

// NextOccurrence returns the due time of the occurrence after due.
// Monthly recurrence clamps the day to the length of the target month,
// so Jan 31 is followed by Feb 28 (or 29) rather than early March.
func NextOccurrence(due time.Time, r Recurrence) (time.Time, bool) {
	switch r {
	case RecurrenceDaily:
		return due.AddDate(0, 0, 1), true
	case RecurrenceWeekly:
		return due.AddDate(0, 0, 7), true
	case RecurrenceMonthly:
		return addMonthClamped(due), true
	default:
		return time.Time{}, false
	}
}

func addMonthClamped(t time.Time) time.Time {
	year, month := t.Year(), t.Month()+1
	if month > time.December {
		month = time.January
		year++
	}
	day := t.Day()
	if last := DaysIn(month, year); day > last {
		day = last
	}
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
