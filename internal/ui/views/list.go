package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/tickle/internal/manager"
	"github.com/dori/tickle/internal/model"
	"github.com/dori/tickle/internal/quickadd"
	"github.com/dori/tickle/internal/ui/theme"
)

// ListMode represents the current mode of the list view
type ListMode int

const (
	ListModeNormal ListMode = iota
	ListModeAdd
	ListModeEdit
	ListModeSearch
	ListModeCommand
	ListModeConfirmDelete
)

// ListView displays tasks in a list format
type ListView struct {
	mgr    *manager.Manager
	width  int
	height int

	allTasks []model.Task // Tasks in the manager's sort order
	tasks    []model.Task // Tasks after filters, as displayed

	cursor       int
	scrollOffset int // First visible task index

	mode      ListMode
	input     textinput.Model
	editingID int
	deleteID  int

	searchFilter string
	filter       manager.Filter
	hideDone     bool

	statusMsg string
	statusErr bool

	// For command palette
	cmdSuggestions []CommandDef
	cmdCursor      int
}

// tasksLoadedMsg carries a fresh snapshot of the manager
type tasksLoadedMsg struct {
	tasks []model.Task
}

// NewListView creates a new list view
func NewListView(mgr *manager.Manager) ListView {
	ti := textinput.New()
	ti.Placeholder = "New task..."
	ti.CharLimit = 256

	return ListView{
		mgr:   mgr,
		input: ti,
	}
}

// Init initializes the list view
func (v ListView) Init() tea.Cmd {
	return v.loadTasks
}

func (v ListView) loadTasks() tea.Msg {
	return tasksLoadedMsg{tasks: v.mgr.List()}
}

// IsInputMode returns true when the view is capturing keys
func (v ListView) IsInputMode() bool {
	return v.mode != ListModeNormal
}

// SetSize updates the view dimensions
func (v ListView) SetSize(width, height int) ListView {
	v.width = width
	v.height = height
	v.input.Width = width - 4
	return v
}

// Tasks returns the tasks currently displayed
func (v ListView) Tasks() []model.Task {
	return v.tasks
}

// Cursor returns the task under the cursor
func (v ListView) Cursor() (model.Task, bool) {
	if v.cursor < 0 || v.cursor >= len(v.tasks) {
		return model.Task{}, false
	}
	return v.tasks[v.cursor], true
}

// Status returns the current status line
func (v ListView) Status() string {
	return v.statusMsg
}

// visibleTaskCount returns how many tasks can fit in the viewport
func (v ListView) visibleTaskCount() int {
	available := v.height - 4
	if available < 1 {
		available = 1
	}
	return available
}

// ensureCursorVisible adjusts scrollOffset to keep cursor in view
func (v *ListView) ensureCursorVisible() {
	visible := v.visibleTaskCount()

	if v.cursor < v.scrollOffset {
		v.scrollOffset = v.cursor
	}
	if v.cursor >= v.scrollOffset+visible {
		v.scrollOffset = v.cursor - visible + 1
	}

	if v.scrollOffset < 0 {
		v.scrollOffset = 0
	}
	maxOffset := max(0, len(v.tasks)-visible)
	if v.scrollOffset > maxOffset {
		v.scrollOffset = maxOffset
	}
}

// refresh reloads from the manager, keeping the cursor on focusID if present
func (v *ListView) refresh(focusID int) {
	v.allTasks = v.mgr.List()
	v.applyFilter()
	if focusID > 0 {
		for i, t := range v.tasks {
			if t.ID == focusID {
				v.cursor = i
				break
			}
		}
	}
	v.ensureCursorVisible()
}

// applyFilter rebuilds the displayed tasks from allTasks
func (v *ListView) applyFilter() {
	now := v.mgr.Now()
	needle := strings.ToLower(strings.TrimSpace(v.searchFilter))

	v.tasks = make([]model.Task, 0, len(v.allTasks))
	for _, t := range v.allTasks {
		if v.hideDone && t.Completed {
			continue
		}
		if !v.filter.Matches(t, now) {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			continue
		}
		v.tasks = append(v.tasks, t)
	}

	if v.cursor >= len(v.tasks) {
		v.cursor = max(0, len(v.tasks)-1)
	}
}

func (v ListView) hasActiveFilters() bool {
	return v.searchFilter != "" || v.filter.IsActive() || v.hideDone
}

func (v ListView) formatActiveFilters() string {
	var parts []string
	if v.searchFilter != "" {
		parts = append(parts, fmt.Sprintf("search: %q", v.searchFilter))
	}
	f := v.filter
	if f.Completed != nil {
		if *f.Completed {
			parts = append(parts, "done")
		} else {
			parts = append(parts, "open")
		}
	}
	if f.Priority != nil {
		parts = append(parts, string(*f.Priority))
	}
	if f.Tag != nil {
		parts = append(parts, "@"+*f.Tag)
	}
	if f.Overdue != nil {
		parts = append(parts, "overdue")
	}
	if f.DueToday != nil {
		parts = append(parts, "due today")
	}
	if f.Recurring != nil {
		parts = append(parts, "recurring")
	}
	if v.hideDone {
		parts = append(parts, "hiding done")
	}
	return "Filter: " + strings.Join(parts, ", ")
}

func (v *ListView) setStatus(format string, args ...any) {
	v.statusMsg = fmt.Sprintf(format, args...)
	v.statusErr = false
}

func (v *ListView) setError(err error) {
	v.statusMsg = err.Error()
	v.statusErr = true
}

// Update handles messages for the list view
func (v ListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksLoadedMsg:
		v.allTasks = msg.tasks
		v.applyFilter()
		v.ensureCursorVisible()
		return v, nil

	case tea.KeyMsg:
		switch v.mode {
		case ListModeAdd:
			return v.handleAddMode(msg)
		case ListModeEdit:
			return v.handleEditMode(msg)
		case ListModeSearch:
			return v.handleSearchMode(msg)
		case ListModeCommand:
			return v.handleCommandMode(msg)
		case ListModeConfirmDelete:
			return v.handleDeleteConfirm(msg)
		default:
			return v.handleNormalMode(msg)
		}
	}

	if v.mode != ListModeNormal && v.mode != ListModeConfirmDelete {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

// handleNormalMode handles keypresses in normal mode
func (v ListView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.statusMsg = ""
	v.statusErr = false

	switch msg.String() {
	// Navigation
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
			v.ensureCursorVisible()
		}
	case "down", "j":
		if v.cursor < len(v.tasks)-1 {
			v.cursor++
			v.ensureCursorVisible()
		}
	case "g":
		v.cursor = 0
		v.ensureCursorVisible()
	case "G":
		v.cursor = max(0, len(v.tasks)-1)
		v.ensureCursorVisible()
	case "pgup", "ctrl+u":
		v.cursor = max(0, v.cursor-max(1, v.visibleTaskCount()/2))
		v.ensureCursorVisible()
	case "pgdown", "ctrl+d":
		v.cursor = min(max(0, len(v.tasks)-1), v.cursor+max(1, v.visibleTaskCount()/2))
		v.ensureCursorVisible()

	case "esc":
		if v.hasActiveFilters() {
			v.searchFilter = ""
			v.filter = manager.Filter{}
			v.hideDone = false
			v.applyFilter()
		}

	// Actions
	case "a":
		v.mode = ListModeAdd
		v.input.SetValue("")
		v.input.Placeholder = "New task... (@tag !high due:tomorrow at:9:00 every:weekly)"
		v.input.Focus()
		return v, textinput.Blink

	case "enter", "e":
		if task, ok := v.Cursor(); ok {
			v.mode = ListModeEdit
			v.editingID = task.ID
			v.input.SetValue(task.Title)
			v.input.CursorEnd()
			v.input.Focus()
			return v, textinput.Blink
		}

	case "tab", "x":
		v.toggleDone()

	case "d":
		if task, ok := v.Cursor(); ok {
			v.mode = ListModeConfirmDelete
			v.deleteID = task.ID
		}

	case "p":
		v.cyclePriority()

	case "c":
		v.hideDone = !v.hideDone
		v.applyFilter()
		v.ensureCursorVisible()

	case "r":
		if task, ok := v.Cursor(); ok {
			v.refresh(task.ID)
		} else {
			v.refresh(0)
		}

	case "/":
		v.mode = ListModeSearch
		v.input.SetValue(v.searchFilter)
		v.input.Placeholder = "Search..."
		v.input.CursorEnd()
		v.input.Focus()
		return v, textinput.Blink

	case ":":
		v.mode = ListModeCommand
		v.input.SetValue("")
		v.input.Placeholder = "Type command..."
		v.input.Focus()
		v.cmdCursor = 0
		v.updateCommandSuggestions()
		return v, textinput.Blink
	}

	return v, nil
}

// handleAddMode parses the input as a quick-add line
func (v ListView) handleAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		line := strings.TrimSpace(v.input.Value())
		if line == "" {
			return v, nil
		}
		nt, err := quickadd.Parse(line, v.mgr.Now())
		if err != nil {
			v.setError(err)
			return v, nil
		}
		id, err := v.mgr.Add(nt)
		if err != nil {
			v.setError(err)
			return v, nil
		}
		v.mode = ListModeNormal
		v.input.Blur()
		v.refresh(id)
		v.setStatus("Added task %d", id)
		return v, nil
	case "esc":
		v.mode = ListModeNormal
		v.input.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleEditMode renames the task being edited
func (v ListView) handleEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		ok, err := v.mgr.Update(v.editingID, manager.TaskUpdate{
			Title: manager.Set(v.input.Value()),
		})
		if err != nil {
			v.setError(err)
			return v, nil
		}
		v.mode = ListModeNormal
		v.input.Blur()
		if ok {
			v.setStatus("Renamed task %d", v.editingID)
		} else {
			v.setStatus("Task %d no longer exists", v.editingID)
		}
		v.refresh(v.editingID)
		return v, nil
	case "esc":
		v.mode = ListModeNormal
		v.input.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleSearchMode filters as the user types
func (v ListView) handleSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		v.searchFilter = strings.TrimSpace(v.input.Value())
		v.mode = ListModeNormal
		v.input.Blur()
		v.applyFilter()
		v.ensureCursorVisible()
		return v, nil
	case "esc":
		v.mode = ListModeNormal
		v.input.Blur()
		v.input.SetValue(v.searchFilter)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)

	v.searchFilter = v.input.Value()
	v.applyFilter()
	v.ensureCursorVisible()

	return v, cmd
}

// handleDeleteConfirm waits for y or n
func (v ListView) handleDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.mode = ListModeNormal
		if v.mgr.Delete(v.deleteID) {
			v.setStatus("Deleted task %d", v.deleteID)
		}
		v.deleteID = 0
		v.refresh(0)
	case "n", "N", "esc":
		v.mode = ListModeNormal
		v.deleteID = 0
	}
	return v, nil
}

// toggleDone flips completion on the cursor task
func (v *ListView) toggleDone() {
	task, ok := v.Cursor()
	if !ok {
		return
	}
	before := v.mgr.NextID()
	if _, err := v.mgr.MarkComplete(task.ID, !task.Completed); err != nil {
		v.setError(err)
	} else if after := v.mgr.NextID(); after != before {
		v.setStatus("Completed. Next occurrence is task %d", after-1)
	}
	v.refresh(task.ID)
}

// cyclePriority steps the cursor task low, medium, high and back to low
func (v *ListView) cyclePriority() {
	task, ok := v.Cursor()
	if !ok {
		return
	}
	var next model.Priority
	switch task.Priority {
	case model.PriorityLow:
		next = model.PriorityMedium
	case model.PriorityMedium:
		next = model.PriorityHigh
	default:
		next = model.PriorityLow
	}
	if _, err := v.mgr.Update(task.ID, manager.TaskUpdate{Priority: manager.Set(next)}); err != nil {
		v.setError(err)
		return
	}
	v.setStatus("Priority: %s", next)
	v.refresh(task.ID)
}

// View renders the list view
func (v ListView) View() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	var b strings.Builder

	if v.mode == ListModeAdd || v.mode == ListModeEdit {
		b.WriteString(styles.InputFocused.Render(v.input.View()))
		b.WriteString("\n\n")
	}

	if v.mode == ListModeSearch {
		b.WriteString(lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Render("/"))
		b.WriteString(v.input.View())
		b.WriteString("\n\n")
	} else if v.hasActiveFilters() {
		filterStyle := lipgloss.NewStyle().Foreground(t.Info).Italic(true)
		clearHint := lipgloss.NewStyle().Foreground(t.Subtle)
		b.WriteString(filterStyle.Render(v.formatActiveFilters()))
		b.WriteString(clearHint.Render(" (esc or :clear to reset)"))
		b.WriteString("\n\n")
	}

	if v.mode == ListModeCommand {
		b.WriteString(v.renderCommandBar())
	}

	if v.mode == ListModeConfirmDelete {
		confirmStyle := lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
		b.WriteString(confirmStyle.Render(fmt.Sprintf("Delete task %d? (y/n)", v.deleteID)))
		b.WriteString("\n\n")
	}

	if v.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Foreground(t.Info).Italic(true)
		if v.statusErr {
			statusStyle = lipgloss.NewStyle().Foreground(t.Error)
		}
		b.WriteString(statusStyle.Render(v.statusMsg))
		b.WriteString("\n\n")
	}

	if len(v.tasks) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(t.Subtle).Italic(true).Padding(2, 0)
		if v.hasActiveFilters() {
			b.WriteString(emptyStyle.Render("No tasks match current filters. Use :clear to reset."))
		} else {
			b.WriteString(emptyStyle.Render("No tasks. Press 'a' to add one."))
		}
		return b.String()
	}

	visible := v.visibleTaskCount()
	endIdx := min(len(v.tasks), v.scrollOffset+visible)
	scrollStyle := lipgloss.NewStyle().Foreground(t.Subtle)

	if v.scrollOffset > 0 {
		b.WriteString(scrollStyle.Render(fmt.Sprintf("  ↑ %d more above", v.scrollOffset)))
		b.WriteString("\n")
	}
	for i := v.scrollOffset; i < endIdx; i++ {
		b.WriteString(v.renderTask(v.tasks[i], i == v.cursor))
		b.WriteString("\n")
	}
	if remaining := len(v.tasks) - endIdx; remaining > 0 {
		b.WriteString(scrollStyle.Render(fmt.Sprintf("  ↓ %d more below", remaining)))
		b.WriteString("\n")
	}

	return b.String()
}

// renderTask renders a single task line
func (v ListView) renderTask(task model.Task, isCursor bool) string {
	t := theme.Current.Theme
	styles := theme.Current.Styles
	now := v.mgr.Now()

	checkbox := "[ ]"
	if task.Completed {
		checkbox = "[x]"
	}

	var priorityChar string
	switch task.Priority {
	case model.PriorityHigh:
		priorityChar = "!"
	case model.PriorityLow:
		priorityChar = "."
	default:
		priorityChar = "-"
	}
	priority := lipgloss.NewStyle().Foreground(t.PriorityColor(task.Priority)).Render(priorityChar)

	titleStyle := styles.TaskNormal
	if task.Completed {
		titleStyle = styles.TaskDone
	} else if task.IsOverdueAt(now) {
		titleStyle = styles.TaskOverdue
	}

	id := lipgloss.NewStyle().Foreground(t.Subtle).Width(4).Align(lipgloss.Right).Render(fmt.Sprintf("%d", task.ID))

	parts := []string{id, checkbox, priority, titleStyle.Render(task.Title)}

	if task.Due != nil {
		dueStyle := styles.DueDate
		switch {
		case task.Completed:
		case task.IsOverdueAt(now):
			dueStyle = lipgloss.NewStyle().Foreground(t.Overdue)
		case task.IsDueTodayAt(now):
			dueStyle = lipgloss.NewStyle().Foreground(t.DueToday)
		}
		parts = append(parts, dueStyle.Render(model.FormatDatetimeDisplay(*task.Due)))
	}

	if task.IsRecurring() {
		parts = append(parts, lipgloss.NewStyle().Foreground(t.Recurring).Render("↻ "+string(task.Recurrence)))
	}

	if len(task.Tags) > 0 {
		tags := make([]string, len(task.Tags))
		for i, tag := range task.Tags {
			tags[i] = styles.Tag.Render("@" + tag)
		}
		parts = append(parts, strings.Join(tags, " "))
	}

	line := strings.Join(parts, " ")
	if isCursor {
		line = styles.TaskFocused.Render(line)
	}
	return line
}
