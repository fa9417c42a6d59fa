// Package manager owns the in-memory task collection: it assigns ids,
// enforces task invariants, spawns recurring occurrences and produces
// sorted and filtered snapshots for the front-ends and the reminder poller.
package manager

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dori/tickle/internal/model"
)

// NewTask holds the caller-supplied fields of a task to create.
// Empty Priority means medium, empty Recurrence means none.
type NewTask struct {
	Title              string
	Description        string
	Priority           model.Priority
	Tags               []string
	Due                *time.Time
	Recurrence         model.Recurrence
	RecurrenceParentID *int
}

// TaskUpdate lists the fields to change on an existing task. Absent fields
// are left alone; Clear resets a field (clearing the title is invalid).
type TaskUpdate struct {
	Title              Field[string]
	Description        Field[string]
	Priority           Field[model.Priority]
	Tags               Field[[]string]
	Due                Field[time.Time]
	Recurrence         Field[model.Recurrence]
	RecurrenceParentID Field[int]
}

// Manager is the task engine. All methods are safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	tasks    []model.Task // Insertion order, which is also id order
	nextID   int
	sortMode model.SortMode
	now      func() time.Time
	logger   *log.Logger
}

// Option configures a Manager
type Option func(*Manager)

// WithClock replaces time.Now as the source of the current time
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithLogger sets the logger used for debug output
func WithLogger(logger *log.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger.WithPrefix("manager")
		}
	}
}

// WithSortMode sets the initial sort mode
func WithSortMode(mode model.SortMode) Option {
	return func(m *Manager) {
		m.sortMode = mode
	}
}

// New creates an empty manager. Ids start at 1 and the sort mode defaults to id.
func New(opts ...Option) *Manager {
	m := &Manager{
		nextID:   1,
		sortMode: model.SortByID,
		now:      time.Now,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add validates and stores a new task, returning its id
func (m *Manager) Add(nt NewTask) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addLocked(nt)
}

func (m *Manager) addLocked(nt NewTask) (int, error) {
	title, err := model.NormalizeTitle(nt.Title)
	if err != nil {
		return 0, err
	}
	priority := nt.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if err := priority.Validate(); err != nil {
		return 0, err
	}
	recurrence := nt.Recurrence
	if recurrence == "" {
		recurrence = model.RecurrenceNone
	}
	if err := recurrence.Validate(); err != nil {
		return 0, err
	}
	if err := model.ValidateParentID(nt.RecurrenceParentID); err != nil {
		return 0, err
	}

	task := model.Task{
		ID:          m.nextID,
		Title:       title,
		Description: model.NormalizeDescription(nt.Description),
		Priority:    priority,
		Tags:        model.CopyTags(nt.Tags),
		CreatedAt:   m.now(),
		Recurrence:  recurrence,
	}
	if nt.Due != nil {
		due := *nt.Due
		task.Due = &due
	}
	if nt.RecurrenceParentID != nil {
		parent := *nt.RecurrenceParentID
		task.RecurrenceParentID = &parent
	}

	m.tasks = append(m.tasks, task)
	m.nextID++
	m.logger.Debug("task added", "id", task.ID, "title", task.Title)
	return task.ID, nil
}

// Get returns a copy of the task with the given id
func (m *Manager) Get(id int) (model.Task, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(id)
	if i < 0 {
		return model.Task{}, false
	}
	return m.tasks[i].Clone(), true
}

// Update applies the provided fields atomically. It returns false if no task
// has the id; a validation error leaves the task untouched.
func (m *Manager) Update(id int, u TaskUpdate) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return false, nil
	}

	// Validate everything against a copy, then commit in one assignment.
	next := m.tasks[i].Clone()

	switch {
	case u.Title.IsClear():
		return false, model.Invalid("title", "title cannot be empty")
	case u.Title.IsSet():
		title, err := model.NormalizeTitle(u.Title.Value())
		if err != nil {
			return false, err
		}
		next.Title = title
	}

	switch {
	case u.Description.IsClear():
		next.Description = ""
	case u.Description.IsSet():
		next.Description = model.NormalizeDescription(u.Description.Value())
	}

	switch {
	case u.Priority.IsClear():
		next.Priority = model.PriorityMedium
	case u.Priority.IsSet():
		if err := u.Priority.Value().Validate(); err != nil {
			return false, err
		}
		next.Priority = u.Priority.Value()
	}

	switch {
	case u.Tags.IsClear():
		next.Tags = []string{}
	case u.Tags.IsSet():
		next.Tags = model.CopyTags(u.Tags.Value())
	}

	switch {
	case u.Due.IsClear():
		next.Due = nil
	case u.Due.IsSet():
		due := u.Due.Value()
		next.Due = &due
	}

	switch {
	case u.Recurrence.IsClear():
		next.Recurrence = model.RecurrenceNone
	case u.Recurrence.IsSet():
		if err := u.Recurrence.Value().Validate(); err != nil {
			return false, err
		}
		next.Recurrence = u.Recurrence.Value()
	}

	switch {
	case u.RecurrenceParentID.IsClear():
		next.RecurrenceParentID = nil
	case u.RecurrenceParentID.IsSet():
		parent := u.RecurrenceParentID.Value()
		if err := model.ValidateParentID(&parent); err != nil {
			return false, err
		}
		next.RecurrenceParentID = &parent
	}

	m.tasks[i] = next
	m.logger.Debug("task updated", "id", id)
	return true, nil
}

// Delete removes a task. Occurrences spawned from it keep their parent id.
func (m *Manager) Delete(id int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return false
	}
	m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
	m.logger.Debug("task deleted", "id", id)
	return true
}

// MarkComplete sets the completion flag. Completing an incomplete recurring
// task also creates its next occurrence. The error is only non-nil if that
// occurrence could not be created; the completion itself still stands.
func (m *Manager) MarkComplete(id int, completed bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return false, nil
	}

	wasCompleted := m.tasks[i].Completed
	m.tasks[i].Completed = completed

	if completed && !wasCompleted && m.tasks[i].IsRecurring() {
		source := m.tasks[i].Clone()
		if _, _, err := m.createNextRecurrenceLocked(source); err != nil {
			return true, err
		}
	}
	return true, nil
}

// SetSortOrder changes the sort mode used by List
func (m *Manager) SetSortOrder(mode string) error {
	parsed, err := model.ParseSortMode(mode)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.sortMode = parsed
	m.mu.Unlock()
	return nil
}

// SortOrder returns the current sort mode
func (m *Manager) SortOrder() model.SortMode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortMode
}

// NextID returns the id the next created task will receive
func (m *Manager) NextID() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.nextID
}

// Len returns the number of tasks
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tasks)
}

// Now returns the manager's current time
func (m *Manager) Now() time.Time {
	return m.now()
}

func (m *Manager) indexOf(id int) int {
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// snapshotLocked copies the collection in insertion order
func (m *Manager) snapshotLocked() []model.Task {
	out := make([]model.Task, len(m.tasks))
	for i := range m.tasks {
		out[i] = m.tasks[i].Clone()
	}
	return out
}
