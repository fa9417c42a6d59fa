package menu

import (
	"fmt"
	"strings"
	"time"

	"github.com/dori/tickle/internal/manager"
	"github.com/dori/tickle/internal/model"
	"github.com/dori/tickle/internal/quickadd"
)

// clearToken clears an optional field when entered at an update prompt
const clearToken = "-"

func (m *Menu) addTask() error {
	m.println("\n--- Add New Task ---")
	title, err := m.ask("Enter task title (required): ")
	if err != nil {
		return err
	}
	if title == "" {
		m.errorf("Error: Task title cannot be empty.")
		return nil
	}

	nt := manager.NewTask{Title: title}
	if nt.Description, err = m.ask("Enter task description (optional, press Enter to skip): "); err != nil {
		return err
	}

	p, err := m.ask("Priority (high/medium/low) [medium]: ")
	if err != nil {
		return err
	}
	if p != "" {
		if nt.Priority, err = model.ParsePriority(p); err != nil {
			m.errorf("Error: %v", err)
			return nil
		}
	}

	tags, err := m.ask("Tags (comma separated, optional): ")
	if err != nil {
		return err
	}
	nt.Tags = splitTags(tags)

	due, ok, err := m.askDue("Due date (YYYY-MM-DD, optional): ")
	if err != nil || !ok {
		return err
	}
	nt.Due = due

	r, err := m.ask("Recurrence (none/daily/weekly/monthly) [none]: ")
	if err != nil {
		return err
	}
	if nt.Recurrence, err = model.ParseRecurrence(r); err != nil {
		m.errorf("Error: %v", err)
		return nil
	}

	id, err := m.mgr.Add(nt)
	if err != nil {
		m.errorf("Error: %v", err)
		return nil
	}
	m.printf("Task added successfully with ID: %d\n", id)
	return nil
}

func (m *Menu) quickAdd() error {
	m.println("\n--- Quick Add ---")
	m.println("Example: pay rent @bills !high due:tomorrow at:09:00 every:monthly")
	line, err := m.ask("> ")
	if err != nil {
		return err
	}

	nt, err := quickadd.Parse(line, m.mgr.Now())
	if err != nil {
		m.errorf("Error: %v", err)
		return nil
	}
	id, err := m.mgr.Add(nt)
	if err != nil {
		m.errorf("Error: %v", err)
		return nil
	}
	m.printf("Task added successfully with ID: %d\n", id)
	return nil
}

func (m *Menu) viewTasks() error {
	m.printf("\n--- Task List (sorted by %s) ---\n", m.mgr.SortOrder())
	m.renderTasks(m.mgr.List(), "No tasks yet.")
	return nil
}

func (m *Menu) updateTask() error {
	m.println("\n--- Update Task ---")
	id, ok, err := m.askID("Enter task ID to update: ")
	if err != nil || !ok {
		return err
	}
	task, found := m.mgr.Get(id)
	if !found {
		m.errorf("Error: Task with ID %d not found.", id)
		return nil
	}

	m.println(`Press Enter to keep a value, "-" to clear it.`)
	var u manager.TaskUpdate

	m.printf("Current title: %s\n", task.Title)
	s, err := m.ask("New title: ")
	if err != nil {
		return err
	}
	if s != "" {
		u.Title = manager.Set(s)
	}

	m.printf("Current description: %s\n", task.Description)
	if s, err = m.ask("New description: "); err != nil {
		return err
	}
	switch s {
	case "":
	case clearToken:
		u.Description = manager.Clear[string]()
	default:
		u.Description = manager.Set(s)
	}

	m.printf("Current priority: %s\n", task.Priority)
	if s, err = m.ask("New priority: "); err != nil {
		return err
	}
	switch s {
	case "":
	case clearToken:
		u.Priority = manager.Clear[model.Priority]()
	default:
		u.Priority = manager.Set(model.Priority(strings.ToLower(s)))
	}

	m.printf("Current tags: %s\n", strings.Join(task.Tags, ", "))
	if s, err = m.ask("New tags (comma separated): "); err != nil {
		return err
	}
	switch s {
	case "":
	case clearToken:
		u.Tags = manager.Clear[[]string]()
	default:
		u.Tags = manager.Set(splitTags(s))
	}

	m.printf("Current due: %s\n", model.FormatDue(task.Due))
	if s, err = m.ask("New due date (YYYY-MM-DD): "); err != nil {
		return err
	}
	switch s {
	case "":
	case clearToken:
		u.Due = manager.Clear[time.Time]()
	default:
		due, ok, err := m.dueFrom(s)
		if err != nil || !ok {
			return err
		}
		u.Due = manager.Set(*due)
	}

	m.printf("Current recurrence: %s\n", task.Recurrence)
	if s, err = m.ask("New recurrence: "); err != nil {
		return err
	}
	switch s {
	case "":
	case clearToken:
		u.Recurrence = manager.Clear[model.Recurrence]()
	default:
		u.Recurrence = manager.Set(model.Recurrence(strings.ToLower(s)))
	}

	updated, err := m.mgr.Update(id, u)
	switch {
	case err != nil:
		m.errorf("Error: %v", err)
	case !updated:
		m.errorf("Failed to update task.")
	default:
		m.println("Task updated successfully.")
	}
	return nil
}

func (m *Menu) deleteTask() error {
	m.println("\n--- Delete Task ---")
	id, ok, err := m.askID("Enter task ID to delete: ")
	if err != nil || !ok {
		return err
	}
	task, found := m.mgr.Get(id)
	if !found {
		m.errorf("Error: Task with ID %d not found.", id)
		return nil
	}

	confirm, err := m.ask(fmt.Sprintf("Are you sure you want to delete task '%s'? (y/N): ", task.Title))
	if err != nil {
		return err
	}
	if !yes(confirm, false) {
		m.println("Deletion cancelled.")
		return nil
	}
	if m.mgr.Delete(id) {
		m.println("Task deleted successfully.")
	} else {
		m.errorf("Failed to delete task.")
	}
	return nil
}

func (m *Menu) toggleTask() error {
	m.println("\n--- Mark Task Complete/Incomplete ---")
	id, ok, err := m.askID("Enter task ID: ")
	if err != nil || !ok {
		return err
	}
	task, found := m.mgr.Get(id)
	if !found {
		m.errorf("Error: Task with ID %d not found.", id)
		return nil
	}

	target := "complete"
	if task.Completed {
		target = "incomplete"
	}
	confirm, err := m.ask(fmt.Sprintf("Mark task '%s' as %s? (Y/n): ", task.Title, target))
	if err != nil {
		return err
	}
	if !yes(confirm, true) {
		m.println("Operation cancelled.")
		return nil
	}

	next := m.mgr.NextID()
	changed, err := m.mgr.MarkComplete(id, !task.Completed)
	if !changed {
		m.errorf("Failed to update task status.")
		return nil
	}
	m.printf("Task marked as %s.\n", target)
	if err != nil {
		m.errorf("Error: next occurrence not created: %v", err)
	} else if m.mgr.NextID() > next {
		m.printf("Next occurrence created with ID: %d\n", next)
	}
	return nil
}

func (m *Menu) searchTasks() error {
	m.println("\n--- Search Tasks ---")
	keyword, err := m.ask("Keyword: ")
	if err != nil {
		return err
	}
	m.renderTasks(m.mgr.Search(keyword), "No matching tasks.")
	return nil
}

func (m *Menu) filterTasks() error {
	m.println("\n--- Filter Tasks ---")
	var f manager.Filter

	s, err := m.ask("Status (any/open/done) [any]: ")
	if err != nil {
		return err
	}
	switch strings.ToLower(s) {
	case "", "any":
	case "open":
		f.Completed = manager.Ptr(false)
	case "done":
		f.Completed = manager.Ptr(true)
	default:
		m.errorf("Error: unknown status %q", s)
		return nil
	}

	if s, err = m.ask("Priority (any/high/medium/low) [any]: "); err != nil {
		return err
	}
	if s != "" && !strings.EqualFold(s, "any") {
		p, err := model.ParsePriority(s)
		if err != nil {
			m.errorf("Error: %v", err)
			return nil
		}
		f.Priority = &p
	}

	if s, err = m.ask("Tag [any]: "); err != nil {
		return err
	}
	if s != "" {
		f.Tag = manager.Ptr(strings.TrimPrefix(s, "@"))
	}

	for _, q := range []struct {
		prompt string
		dst    **bool
	}{
		{"Only overdue? (y/N): ", &f.Overdue},
		{"Only due today? (y/N): ", &f.DueToday},
		{"Only recurring? (y/N): ", &f.Recurring},
	} {
		if s, err = m.ask(q.prompt); err != nil {
			return err
		}
		if yes(s, false) {
			*q.dst = manager.Ptr(true)
		}
	}

	m.renderTasks(m.mgr.Filter(f), "No matching tasks.")
	return nil
}

func (m *Menu) sortTasks() error {
	m.println("\n--- Sort Order ---")
	m.printf("Current: %s\n", m.mgr.SortOrder())
	s, err := m.ask("Sort by (id/priority/title/status/due_date): ")
	if err != nil {
		return err
	}
	if err := m.mgr.SetSortOrder(s); err != nil {
		m.errorf("Error: %v", err)
		return nil
	}
	m.printf("Sort order set to %s.\n", m.mgr.SortOrder())
	return nil
}

func (m *Menu) showReminders() error {
	m.println("\n--- Reminders ---")
	sections := []struct {
		title string
		tasks []model.Task
	}{
		{"Overdue", m.mgr.OverdueTasks()},
		{"Due today", m.mgr.DueTodayTasks()},
		{fmt.Sprintf("Due in the next %d hours", m.hours), m.mgr.DueSoonTasks(m.hours)},
	}
	for _, s := range sections {
		m.println(m.heading.Render(fmt.Sprintf("%s (%d)", s.title, len(s.tasks))))
		for _, t := range s.tasks {
			m.printf("  #%d %s  %s\n", t.ID, t.Title, model.FormatDue(t.Due))
		}
	}
	return nil
}

func (m *Menu) showStats() error {
	m.println("\n--- Statistics ---")
	if m.mirror == nil {
		m.println("Statistics unavailable.")
		return nil
	}
	if err := m.mirror.Sync(m.mgr.Snapshot()); err != nil {
		m.logger.Error("mirror sync failed", "err", err)
		m.errorf("Error: %v", err)
		return nil
	}
	s, err := m.mirror.Stats(m.mgr.Now())
	if err != nil {
		m.logger.Error("stats query failed", "err", err)
		m.errorf("Error: %v", err)
		return nil
	}

	m.printf("Total: %d  Open: %d  Completed: %d (%.0f%%)\n", s.Total, s.Open, s.Completed, s.CompletionRate()*100)
	m.printf("Overdue: %d  Due today: %d  Recurring: %d\n", s.Overdue, s.DueToday, s.Recurring)
	for _, p := range model.Priorities {
		m.printf("  %-6s %d open\n", p, s.ByPriority[p])
	}
	if len(s.TopTags) > 0 {
		parts := make([]string, len(s.TopTags))
		for i, tc := range s.TopTags {
			parts[i] = fmt.Sprintf("@%s (%d)", tc.Tag, tc.Count)
		}
		m.printf("Top tags: %s\n", strings.Join(parts, ", "))
	}
	return nil
}

// askDue prompts for an optional date and time. ok is false after an
// input error has been reported.
func (m *Menu) askDue(prompt string) (*time.Time, bool, error) {
	s, err := m.ask(prompt)
	if err != nil {
		return nil, false, err
	}
	if s == "" {
		return nil, true, nil
	}
	return m.dueFrom(s)
}

// dueFrom parses a date answer and asks for the optional time of day
func (m *Menu) dueFrom(dateStr string) (*time.Time, bool, error) {
	date, ok := model.ParseDateInput(dateStr)
	if !ok {
		m.errorf("Error: invalid date %q (use YYYY-MM-DD).", dateStr)
		return nil, false, nil
	}

	ts, err := m.ask("Due time (HH:MM, optional): ")
	if err != nil {
		return nil, false, err
	}
	if ts == "" {
		return &date, true, nil
	}
	h, min, ok := model.ParseTimeInput(ts)
	if !ok {
		m.errorf("Error: invalid time %q (use HH:MM).", ts)
		return nil, false, nil
	}
	due := model.CombineDateTime(date, h, min)
	return &due, true, nil
}

func splitTags(s string) []string {
	tags := []string{}
	for _, part := range strings.Split(s, ",") {
		if tag := strings.TrimPrefix(strings.TrimSpace(part), "@"); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func yes(answer string, def bool) bool {
	switch strings.ToLower(answer) {
	case "":
		return def
	case "y", "yes":
		return true
	}
	return false
}
