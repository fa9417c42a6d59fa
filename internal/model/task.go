package model

import (
	"strings"
	"time"
)

// Priority represents task priority level
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists the valid priorities, highest first
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// ParsePriority parses a priority name, ignoring case and surrounding space
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

// Validate returns a ValidationError if p is not a known priority
func (p Priority) Validate() error {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return nil
	}
	return newValidationError("priority", string(p), priorityNames())
}

// Weight returns a numeric weight for sorting by priority (higher sorts first)
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Recurrence is how often a task repeats
type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

// Recurrences lists the valid recurrence values
var Recurrences = []Recurrence{RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly}

// ParseRecurrence parses a recurrence name. An empty string means none.
func ParseRecurrence(s string) (Recurrence, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RecurrenceNone, nil
	}
	r := Recurrence(s)
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}

// Validate returns a ValidationError if r is not a known recurrence
func (r Recurrence) Validate() error {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return nil
	}
	return newValidationError("recurrence", string(r), recurrenceNames())
}

// Task represents a todo item
type Task struct {
	ID                 int        `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description,omitempty"`
	Completed          bool       `json:"completed"`
	Priority           Priority   `json:"priority"`
	Tags               []string   `json:"tags"`
	CreatedAt          time.Time  `json:"created_at"`
	Due                *time.Time `json:"due,omitempty"`
	Recurrence         Recurrence `json:"recurrence"`
	RecurrenceParentID *int       `json:"recurrence_parent_id,omitempty"` // Spawning task, may no longer exist
}

// Clone returns a deep copy that shares no slices or pointers with t
func (t Task) Clone() Task {
	c := t
	c.Tags = CopyTags(t.Tags)
	if t.Due != nil {
		due := *t.Due
		c.Due = &due
	}
	if t.RecurrenceParentID != nil {
		id := *t.RecurrenceParentID
		c.RecurrenceParentID = &id
	}
	return c
}

// CopyTags returns a fresh, never-nil copy of tags
func CopyTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

// IsRecurring reports whether completing the task spawns another occurrence
func (t *Task) IsRecurring() bool {
	return t.Recurrence != "" && t.Recurrence != RecurrenceNone
}

// HasTag reports whether tag is one of the task's tags (exact match)
func (t *Task) HasTag(tag string) bool {
	for _, tg := range t.Tags {
		if tg == tag {
			return true
		}
	}
	return false
}

// IsOverdueAt returns true if the task is incomplete and its due time is before now
func (t *Task) IsOverdueAt(now time.Time) bool {
	if t.Due == nil || t.Completed {
		return false
	}
	return t.Due.Before(now)
}

// IsDueTodayAt returns true if the task is incomplete and due on now's calendar day
func (t *Task) IsDueTodayAt(now time.Time) bool {
	if t.Due == nil || t.Completed {
		return false
	}
	return SameDay(*t.Due, now)
}

// IsDueSoonAt returns true if the task is incomplete and due within (now, now+window]
func (t *Task) IsDueSoonAt(now time.Time, window time.Duration) bool {
	if t.Due == nil || t.Completed {
		return false
	}
	return t.Due.After(now) && !t.Due.After(now.Add(window))
}

// SameDay reports whether a and b fall on the same calendar date
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func priorityNames() []string {
	names := make([]string, len(Priorities))
	for i, p := range Priorities {
		names[i] = string(p)
	}
	return names
}

func recurrenceNames() []string {
	names := make([]string, len(Recurrences))
	for i, r := range Recurrences {
		names[i] = string(r)
	}
	return names
}
