package model

import "strings"

// NormalizeTitle trims a title and rejects empty or whitespace-only input
func NormalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", Invalid("title", "title cannot be empty")
	}
	return trimmed, nil
}

// NormalizeDescription trims a description; any string is valid
func NormalizeDescription(desc string) string {
	return strings.TrimSpace(desc)
}

// ValidateParentID rejects non-positive parent references
func ValidateParentID(id *int) error {
	if id != nil && *id < 1 {
		return Invalid("recurrence_parent_id", "must be a positive task id")
	}
	return nil
}

// Validate checks every invariant of a fully built task
func (t *Task) Validate() error {
	if t.ID < 1 {
		return Invalid("id", "must be positive")
	}
	if _, err := NormalizeTitle(t.Title); err != nil {
		return err
	}
	if err := t.Priority.Validate(); err != nil {
		return err
	}
	if err := t.Recurrence.Validate(); err != nil {
		return err
	}
	return ValidateParentID(t.RecurrenceParentID)
}
