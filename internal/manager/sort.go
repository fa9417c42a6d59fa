package manager

import (
	"sort"
	"strings"
	"time"

	"github.com/dori/tickle/internal/model"
)

// List returns a snapshot ordered by the current sort mode
func (m *Manager) List() []model.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortTasks(m.snapshotLocked(), m.sortMode, m.now())
}

// ListBy returns a snapshot ordered by mode without changing the current mode
func (m *Manager) ListBy(mode model.SortMode) []model.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return sortTasks(m.snapshotLocked(), mode, m.now())
}

// Snapshot returns every task in insertion order
func (m *Manager) Snapshot() []model.Task {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// sortTasks orders tasks in place and returns them. Input must be in
// insertion order; every mode is stable so ties keep that order.
func sortTasks(tasks []model.Task, mode model.SortMode, now time.Time) []model.Task {
	switch mode {
	case model.SortByPriority:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Priority.Weight() > tasks[j].Priority.Weight()
		})

	case model.SortByTitle:
		sort.SliceStable(tasks, func(i, j int) bool {
			return strings.ToLower(tasks[i].Title) < strings.ToLower(tasks[j].Title)
		})

	case model.SortByStatus:
		sort.SliceStable(tasks, func(i, j int) bool {
			return !tasks[i].Completed && tasks[j].Completed
		})

	case model.SortByDueDate:
		sort.SliceStable(tasks, func(i, j int) bool {
			ti, tj := dueTier(tasks[i], now), dueTier(tasks[j], now)
			if ti != tj {
				return ti < tj
			}
			if ti == tierNoDue {
				return false
			}
			return tasks[i].Due.Before(*tasks[j].Due)
		})

	default:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].ID < tasks[j].ID
		})
	}
	return tasks
}

const (
	tierOverdue = iota
	tierUpcoming
	tierNoDue
)

// dueTier groups tasks for due_date ordering: overdue first, then anything
// else with a due time, then tasks without one
func dueTier(t model.Task, now time.Time) int {
	switch {
	case t.Due == nil:
		return tierNoDue
	case t.IsOverdueAt(now):
		return tierOverdue
	default:
		return tierUpcoming
	}
}
