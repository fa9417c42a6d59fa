package manager

import (
	"time"

	"github.com/dori/tickle/internal/model"
)

// CalculateNextOccurrence returns the due time of the occurrence after task,
// or nil if the task has no due time or does not recur
func (m *Manager) CalculateNextOccurrence(task model.Task) *time.Time {
	if task.Due == nil || !task.IsRecurring() {
		return nil
	}
	next, ok := model.NextOccurrence(*task.Due, task.Recurrence)
	if !ok {
		return nil
	}
	return &next
}

// CreateNextRecurrence adds the occurrence that follows task. The bool is
// false when task does not recur or has no due time.
func (m *Manager) CreateNextRecurrence(task model.Task) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createNextRecurrenceLocked(task)
}

func (m *Manager) createNextRecurrenceLocked(task model.Task) (int, bool, error) {
	next := m.CalculateNextOccurrence(task)
	if next == nil {
		return 0, false, nil
	}

	parentID := task.ID
	id, err := m.addLocked(NewTask{
		Title:              task.Title,
		Description:        task.Description,
		Priority:           task.Priority,
		Tags:               task.Tags, // addLocked copies
		Due:                next,
		Recurrence:         task.Recurrence,
		RecurrenceParentID: &parentID,
	})
	if err != nil {
		return 0, false, err
	}
	m.logger.Debug("occurrence spawned", "parent", parentID, "id", id, "due", model.FormatDatetimeDisplay(*next))
	return id, true, nil
}
