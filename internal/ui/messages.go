package ui

import (
	"github.com/dori/tickle/internal/reminder"
)

// View represents the current active view
type View int

const (
	ViewList View = iota
	ViewStats
)

// String returns the display name for a view
func (v View) String() string {
	switch v {
	case ViewList:
		return "List"
	case ViewStats:
		return "Stats"
	default:
		return "Unknown"
	}
}

// Messages for inter-component communication

// SwitchViewMsg requests a view change
type SwitchViewMsg struct {
	View View
}

// ReminderMsg carries the reminder poller's latest report
type ReminderMsg struct {
	Report reminder.Report
}

// ErrorMsg contains an error to display
type ErrorMsg struct {
	Err error
}

// StatusMsg contains a status message to display
type StatusMsg struct {
	Message string
}

// ThemeChangedMsg indicates the theme was changed
type ThemeChangedMsg struct {
	ThemeName string
}
