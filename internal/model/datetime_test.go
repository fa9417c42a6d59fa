package model

import (
	"testing"
	"time"
)

func TestParseDateInput(t *testing.T) {
	tests := []struct {
		in     string
		wantOK bool
		want   time.Time
	}{
		{"2024-03-05", true, time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local)},
		{" 2024-02-29 ", true, time.Date(2024, 2, 29, 0, 0, 0, 0, time.Local)},
		{"2023-02-29", false, time.Time{}},
		{"2024-13-01", false, time.Time{}},
		{"2024-03", false, time.Time{}},
		{"2024-03-05-01", false, time.Time{}},
		{"2024/03/05", false, time.Time{}},
		{"2024-0a-05", false, time.Time{}},
		{"2024--05", false, time.Time{}},
		{"", false, time.Time{}},
	}

	for _, tt := range tests {
		got, ok := ParseDateInput(tt.in)
		if ok != tt.wantOK {
			t.Errorf("ParseDateInput(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("ParseDateInput(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseTimeInput(t *testing.T) {
	tests := []struct {
		in       string
		wantOK   bool
		hour     int
		minute   int
	}{
		{"09:30", true, 9, 30},
		{"0:00", true, 0, 0},
		{"23:59", true, 23, 59},
		{"24:00", false, 0, 0},
		{"12:60", false, 0, 0},
		{"12", false, 0, 0},
		{"12:30:00", false, 0, 0},
		{"ab:cd", false, 0, 0},
		{"", false, 0, 0},
	}

	for _, tt := range tests {
		h, m, ok := ParseTimeInput(tt.in)
		if ok != tt.wantOK {
			t.Errorf("ParseTimeInput(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			continue
		}
		if ok && (h != tt.hour || m != tt.minute) {
			t.Errorf("ParseTimeInput(%q) = %d:%d, want %d:%d", tt.in, h, m, tt.hour, tt.minute)
		}
	}
}

func TestFormatDatetimeDisplay(t *testing.T) {
	midnight := time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local)
	if got := FormatDatetimeDisplay(midnight); got != "2024-03-05" {
		t.Errorf("midnight = %q", got)
	}
	withTime := CombineDateTime(midnight, 14, 7)
	if got := FormatDatetimeDisplay(withTime); got != "2024-03-05 14:07" {
		t.Errorf("with time = %q", got)
	}
}

func TestDateRoundTrip(t *testing.T) {
	d, ok := ParseDateInput("2024-03-05")
	if !ok {
		t.Fatal("parse failed")
	}
	if got := FormatDatetimeDisplay(d); got != "2024-03-05" {
		t.Errorf("round trip = %q", got)
	}
}

func TestFormatDueNil(t *testing.T) {
	if got := FormatDue(nil); got != "" {
		t.Errorf("FormatDue(nil) = %q", got)
	}
}
