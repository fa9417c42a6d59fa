package model

import "strings"

// SortMode selects the ordering of task listings
type SortMode string

const (
	SortByID       SortMode = "id"
	SortByPriority SortMode = "priority"
	SortByTitle    SortMode = "title"
	SortByStatus   SortMode = "status"
	SortByDueDate  SortMode = "due_date"
)

// SortModes lists every recognized sort mode
var SortModes = []SortMode{SortByID, SortByPriority, SortByTitle, SortByStatus, SortByDueDate}

// ParseSortMode parses a sort mode name. "due" and "due-date" are accepted for due_date.
func ParseSortMode(s string) (SortMode, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	switch norm {
	case "due", "due-date", "duedate":
		norm = string(SortByDueDate)
	}
	mode := SortMode(norm)
	for _, m := range SortModes {
		if m == mode {
			return mode, nil
		}
	}
	names := make([]string, len(SortModes))
	for i, m := range SortModes {
		names[i] = string(m)
	}
	return "", newValidationError("sort", s, names)
}
