package model

import (
	"testing"
	"time"
)

func TestNextOccurrence(t *testing.T) {
	at := func(y int, m time.Month, d, h, min int) time.Time {
		return time.Date(y, m, d, h, min, 0, 0, time.Local)
	}

	tests := []struct {
		name string
		due  time.Time
		rec  Recurrence
		want time.Time
	}{
		{"daily across month end", at(2024, 1, 31, 9, 0), RecurrenceDaily, at(2024, 2, 1, 9, 0)},
		{"daily across year end", at(2023, 12, 31, 23, 30), RecurrenceDaily, at(2024, 1, 1, 23, 30)},
		{"weekly", at(2024, 2, 26, 8, 15), RecurrenceWeekly, at(2024, 3, 4, 8, 15)},
		{"monthly plain", at(2024, 3, 5, 10, 0), RecurrenceMonthly, at(2024, 4, 5, 10, 0)},
		{"monthly jan 31 leap year", at(2024, 1, 31, 9, 0), RecurrenceMonthly, at(2024, 2, 29, 9, 0)},
		{"monthly jan 31 common year", at(2023, 1, 31, 9, 0), RecurrenceMonthly, at(2023, 2, 28, 9, 0)},
		{"monthly 31 into 30-day month", at(2024, 3, 31, 0, 0), RecurrenceMonthly, at(2024, 4, 30, 0, 0)},
		{"monthly december rolls year", at(2024, 12, 15, 7, 45), RecurrenceMonthly, at(2025, 1, 15, 7, 45)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextOccurrence(tt.due, tt.rec)
			if !ok {
				t.Fatal("NextOccurrence returned ok = false")
			}
			if !got.Equal(tt.want) {
				t.Errorf("NextOccurrence = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNextOccurrenceNone(t *testing.T) {
	if _, ok := NextOccurrence(time.Now(), RecurrenceNone); ok {
		t.Error("RecurrenceNone produced an occurrence")
	}
}
