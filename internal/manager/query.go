package manager

import (
	"strings"
	"time"

	"github.com/dori/tickle/internal/model"
)

// DefaultDueSoonHours is the look-ahead window used when none is configured
const DefaultDueSoonHours = 24

// Filter narrows a task listing. Nil criteria are ignored; the rest are
// combined with AND.
type Filter struct {
	Completed *bool
	Priority  *model.Priority
	Tag       *string
	Overdue   *bool
	DueToday  *bool
	Recurring *bool
}

// Ptr returns a pointer to v, for building Filter values
func Ptr[T any](v T) *T {
	return &v
}

// IsActive returns true if any criterion is set
func (f Filter) IsActive() bool {
	return f.Completed != nil ||
		f.Priority != nil ||
		f.Tag != nil ||
		f.Overdue != nil ||
		f.DueToday != nil ||
		f.Recurring != nil
}

// Matches returns true if the task passes every set criterion at now
func (f Filter) Matches(t model.Task, now time.Time) bool {
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.Tag != nil && !t.HasTag(*f.Tag) {
		return false
	}
	if f.Overdue != nil && t.IsOverdueAt(now) != *f.Overdue {
		return false
	}
	if f.DueToday != nil && t.IsDueTodayAt(now) != *f.DueToday {
		return false
	}
	if f.Recurring != nil && t.IsRecurring() != *f.Recurring {
		return false
	}
	return true
}

// Filter returns the tasks matching f, in insertion order
func (m *Manager) Filter(f Filter) []model.Task {
	now := m.now()
	return m.collect(func(t *model.Task) bool {
		return f.Matches(*t, now)
	})
}

// Search returns tasks whose title or description contains keyword,
// ignoring case. An empty keyword matches everything.
func (m *Manager) Search(keyword string) []model.Task {
	if keyword == "" {
		return m.Snapshot()
	}
	needle := strings.ToLower(keyword)
	return m.collect(func(t *model.Task) bool {
		return strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Description), needle)
	})
}

// IsOverdue reports whether task is overdue now
func (m *Manager) IsOverdue(task model.Task) bool {
	return task.IsOverdueAt(m.now())
}

// IsDueToday reports whether task is due today
func (m *Manager) IsDueToday(task model.Task) bool {
	return task.IsDueTodayAt(m.now())
}

// IsDueSoon reports whether task is due within the next hours
func (m *Manager) IsDueSoon(task model.Task, hours int) bool {
	return task.IsDueSoonAt(m.now(), time.Duration(hours)*time.Hour)
}

// OverdueTasks returns all overdue tasks
func (m *Manager) OverdueTasks() []model.Task {
	now := m.now()
	return m.collect(func(t *model.Task) bool {
		return t.IsOverdueAt(now)
	})
}

// DueTodayTasks returns all incomplete tasks due today
func (m *Manager) DueTodayTasks() []model.Task {
	now := m.now()
	return m.collect(func(t *model.Task) bool {
		return t.IsDueTodayAt(now)
	})
}

// DueSoonTasks returns incomplete tasks due within the next hours
func (m *Manager) DueSoonTasks(hours int) []model.Task {
	now := m.now()
	window := time.Duration(hours) * time.Hour
	return m.collect(func(t *model.Task) bool {
		return t.IsDueSoonAt(now, window)
	})
}

func (m *Manager) collect(keep func(*model.Task) bool) []model.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]model.Task, 0, len(m.tasks))
	for i := range m.tasks {
		if keep(&m.tasks[i]) {
			result = append(result, m.tasks[i].Clone())
		}
	}
	return result
}
