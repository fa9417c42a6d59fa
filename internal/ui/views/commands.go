package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/tickle/internal/manager"
	"github.com/dori/tickle/internal/model"
	"github.com/dori/tickle/internal/quickadd"
	"github.com/dori/tickle/internal/ui/theme"
)

// CommandDef defines a command for the command palette
type CommandDef struct {
	Name        string   // Primary command name
	Aliases     []string // Alternative names
	Description string
	Usage       string
	HasArgs     bool
}

// allCommands is the list of available commands
var allCommands = []CommandDef{
	{Name: "due", Aliases: []string{"d"}, Description: "Set or clear due date", Usage: "due friday 17:00 | due none", HasArgs: true},
	{Name: "priority", Aliases: []string{"pri", "p"}, Description: "Set priority", Usage: "priority high", HasArgs: true},
	{Name: "tag", Aliases: []string{"t"}, Description: "Add tag to task", Usage: "tag work", HasArgs: true},
	{Name: "untag", Aliases: []string{"ut"}, Description: "Remove tag from task", Usage: "untag work", HasArgs: true},
	{Name: "desc", Aliases: []string{"description"}, Description: "Set description", Usage: "desc call before noon", HasArgs: true},
	{Name: "recur", Aliases: []string{"every", "r"}, Description: "Set recurrence", Usage: "recur weekly", HasArgs: true},
	{Name: "done", Aliases: []string{"complete"}, Description: "Toggle done status", Usage: "done", HasArgs: false},
	{Name: "next", Aliases: []string{}, Description: "Create next occurrence now", Usage: "next", HasArgs: false},
	{Name: "delete", Aliases: []string{"del", "rm"}, Description: "Delete task", Usage: "delete", HasArgs: false},
	{Name: "sort", Aliases: []string{}, Description: "Sort tasks", Usage: "sort due_date", HasArgs: true},
	{Name: "filter", Aliases: []string{"f"}, Description: "Filter tasks", Usage: "filter open high @work", HasArgs: true},
	{Name: "clear", Aliases: []string{}, Description: "Clear all filters", Usage: "clear", HasArgs: false},
	{Name: "theme", Aliases: []string{}, Description: "Change theme", Usage: "theme nord", HasArgs: true},
	{Name: "help", Aliases: []string{"h", "?"}, Description: "Show available commands", Usage: "help", HasArgs: false},
}

// handleCommandMode handles keypresses in command mode
func (v ListView) handleCommandMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		command := strings.TrimSpace(v.input.Value())
		if len(v.cmdSuggestions) > 0 && v.cmdCursor < len(v.cmdSuggestions) && !strings.Contains(command, " ") {
			command = v.cmdSuggestions[v.cmdCursor].Name
		}
		v.mode = ListModeNormal
		v.input.Blur()
		v.cmdSuggestions = nil
		v.cmdCursor = 0
		if command != "" {
			return v.executeCommand(command)
		}
		return v, nil

	case "esc":
		v.mode = ListModeNormal
		v.input.Blur()
		v.cmdSuggestions = nil
		v.cmdCursor = 0
		return v, nil

	case "tab":
		if len(v.cmdSuggestions) > 0 && v.cmdCursor < len(v.cmdSuggestions) {
			cmd := v.cmdSuggestions[v.cmdCursor]
			if cmd.HasArgs {
				v.input.SetValue(cmd.Name + " ")
			} else {
				v.input.SetValue(cmd.Name)
			}
			v.input.CursorEnd()
			v.updateCommandSuggestions()
		}
		return v, nil

	case "up", "ctrl+p":
		if v.cmdCursor > 0 {
			v.cmdCursor--
		}
		return v, nil

	case "down", "ctrl+n":
		if v.cmdCursor < len(v.cmdSuggestions)-1 {
			v.cmdCursor++
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	v.updateCommandSuggestions()
	return v, cmd
}

// updateCommandSuggestions filters commands based on current input
func (v *ListView) updateCommandSuggestions() {
	input := strings.ToLower(strings.TrimLeft(v.input.Value(), " "))

	// Arguments are being typed
	if strings.Contains(input, " ") {
		v.cmdSuggestions = nil
		v.cmdCursor = 0
		return
	}

	var matches []CommandDef
	for _, cmd := range allCommands {
		if strings.HasPrefix(cmd.Name, input) {
			matches = append(matches, cmd)
			continue
		}
		for _, alias := range cmd.Aliases {
			if strings.HasPrefix(alias, input) {
				matches = append(matches, cmd)
				break
			}
		}
	}

	v.cmdSuggestions = matches
	if v.cmdCursor >= len(v.cmdSuggestions) {
		v.cmdCursor = 0
	}
}

// executeCommand parses and executes a command
func (v ListView) executeCommand(command string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return v, nil
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "due", "d":
		v.cmdSetDue(args)
	case "priority", "pri", "p":
		v.cmdSetPriority(args)
	case "tag", "t":
		v.cmdTag(args, true)
	case "untag", "ut":
		v.cmdTag(args, false)
	case "desc", "description":
		v.cmdSetDescription(args)
	case "recur", "every", "r":
		v.cmdSetRecurrence(args)
	case "done", "complete":
		v.toggleDone()
	case "next":
		v.cmdNextOccurrence()
	case "delete", "del", "rm":
		if task, ok := v.Cursor(); ok {
			v.mode = ListModeConfirmDelete
			v.deleteID = task.ID
		}
	case "sort":
		v.cmdSort(args)
	case "filter", "f":
		v.cmdFilter(args)
	case "clear":
		v.searchFilter = ""
		v.filter = manager.Filter{}
		v.hideDone = false
		v.applyFilter()
		v.ensureCursorVisible()
		v.setStatus("Filters cleared")
	case "theme":
		v.cmdSetTheme(args)
	case "help", "h", "?":
		names := make([]string, len(allCommands))
		for i, c := range allCommands {
			names[i] = c.Name
		}
		v.setStatus("Commands: %s", strings.Join(names, ", "))
	default:
		v.setError(fmt.Errorf("unknown command: %s", cmd))
	}
	return v, nil
}

// update applies u to the cursor task and refreshes
func (v *ListView) update(u manager.TaskUpdate, status string) {
	task, ok := v.Cursor()
	if !ok {
		v.setError(fmt.Errorf("no task selected"))
		return
	}
	if _, err := v.mgr.Update(task.ID, u); err != nil {
		v.setError(err)
		return
	}
	v.setStatus("%s", status)
	v.refresh(task.ID)
}

// cmdSetDue accepts a date word or YYYY-MM-DD, an optional HH:MM, or none
func (v *ListView) cmdSetDue(args []string) {
	if len(args) == 0 {
		v.setStatus("Usage: due <date> [HH:MM] (e.g., due tomorrow, due 2024-01-15 09:30, due none)")
		return
	}
	if strings.EqualFold(args[0], "none") {
		v.update(manager.TaskUpdate{Due: manager.Clear[time.Time]()}, "Due date cleared")
		return
	}

	date, ok := quickadd.ParseNaturalDate(args[0], v.mgr.Now())
	if !ok {
		v.setError(model.Invalid("due", fmt.Sprintf("cannot parse date %q", args[0])))
		return
	}
	hour, minute := quickadd.DefaultDueHour, quickadd.DefaultDueMinute
	if len(args) > 1 {
		h, m, ok := model.ParseTimeInput(args[1])
		if !ok {
			v.setError(model.Invalid("time", fmt.Sprintf("cannot parse time %q", args[1])))
			return
		}
		hour, minute = h, m
	}
	due := model.CombineDateTime(date, hour, minute)
	v.update(manager.TaskUpdate{Due: manager.Set(due)}, "Due: "+model.FormatDatetimeDisplay(due))
}

func (v *ListView) cmdSetPriority(args []string) {
	if len(args) == 0 {
		v.setStatus("Usage: priority <high|medium|low>")
		return
	}
	p, err := model.ParsePriority(args[0])
	if err != nil {
		v.setError(err)
		return
	}
	v.update(manager.TaskUpdate{Priority: manager.Set(p)}, "Priority: "+string(p))
}

// cmdTag adds or removes a tag on the cursor task
func (v *ListView) cmdTag(args []string, add bool) {
	task, ok := v.Cursor()
	if !ok || len(args) == 0 {
		v.setStatus("Usage: tag <name> | untag <name>")
		return
	}
	name := strings.TrimPrefix(args[0], "@")
	if name == "" {
		v.setError(model.Invalid("tags", "tag cannot be empty"))
		return
	}

	tags := make([]string, 0, len(task.Tags)+1)
	for _, tag := range task.Tags {
		if tag != name {
			tags = append(tags, tag)
		}
	}
	status := "Removed @" + name
	if add {
		tags = append(tags, name)
		status = "Tagged @" + name
	}
	v.update(manager.TaskUpdate{Tags: manager.Set(tags)}, status)
}

func (v *ListView) cmdSetDescription(args []string) {
	if len(args) == 0 {
		v.update(manager.TaskUpdate{Description: manager.Clear[string]()}, "Description cleared")
		return
	}
	v.update(manager.TaskUpdate{Description: manager.Set(strings.Join(args, " "))}, "Description updated")
}

func (v *ListView) cmdSetRecurrence(args []string) {
	if len(args) == 0 {
		v.setStatus("Usage: recur <none|daily|weekly|monthly>")
		return
	}
	r, err := model.ParseRecurrence(args[0])
	if err != nil {
		v.setError(err)
		return
	}
	v.update(manager.TaskUpdate{Recurrence: manager.Set(r)}, "Repeats: "+string(r))
}

func (v *ListView) cmdNextOccurrence() {
	task, ok := v.Cursor()
	if !ok {
		return
	}
	id, created, err := v.mgr.CreateNextRecurrence(task)
	switch {
	case err != nil:
		v.setError(err)
	case !created:
		v.setStatus("Task %d does not repeat or has no due date", task.ID)
	default:
		v.setStatus("Next occurrence created with ID: %d", id)
		v.refresh(id)
	}
}

func (v *ListView) cmdSort(args []string) {
	if len(args) == 0 {
		v.setStatus("Sort: %s (id, priority, title, status, due_date)", v.mgr.SortOrder())
		return
	}
	if err := v.mgr.SetSortOrder(args[0]); err != nil {
		v.setError(err)
		return
	}
	var focus int
	if task, ok := v.Cursor(); ok {
		focus = task.ID
	}
	v.refresh(focus)
	v.setStatus("Sorted by %s", v.mgr.SortOrder())
}

// cmdFilter combines criteria: open, done, overdue, today, recurring,
// a priority name or @tag
func (v *ListView) cmdFilter(args []string) {
	if len(args) == 0 {
		v.setStatus("Usage: filter [open|done] [overdue] [today] [recurring] [high|medium|low] [@tag]")
		return
	}

	var f manager.Filter
	for _, arg := range args {
		switch a := strings.ToLower(arg); {
		case a == "open" || a == "pending":
			f.Completed = manager.Ptr(false)
		case a == "done" || a == "completed":
			f.Completed = manager.Ptr(true)
		case a == "overdue":
			f.Overdue = manager.Ptr(true)
		case a == "today":
			f.DueToday = manager.Ptr(true)
		case a == "recurring":
			f.Recurring = manager.Ptr(true)
		case strings.HasPrefix(a, "@") && len(a) > 1:
			f.Tag = manager.Ptr(arg[1:])
		default:
			p, err := model.ParsePriority(a)
			if err != nil {
				v.setError(fmt.Errorf("unknown filter %q", arg))
				return
			}
			f.Priority = manager.Ptr(p)
		}
	}

	v.filter = f
	v.applyFilter()
	v.ensureCursorVisible()
	v.setStatus("%d matching", len(v.tasks))
}

func (v *ListView) cmdSetTheme(args []string) {
	if len(args) == 0 {
		v.setStatus("Themes: %s", strings.Join(theme.Names(), ", "))
		return
	}
	if !theme.SetByName(args[0]) {
		v.setError(fmt.Errorf("unknown theme %q (available: %s)", args[0], strings.Join(theme.Names(), ", ")))
		return
	}
	v.setStatus("Theme: %s", theme.Current.Theme.Name)
}

// renderCommandBar renders the prompt and suggestion box
func (v ListView) renderCommandBar() string {
	t := theme.Current.Theme
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Render(":"))
	b.WriteString(v.input.View())
	b.WriteString("\n")

	if len(v.cmdSuggestions) > 0 {
		suggestionBox := lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1).
			Width(max(20, v.width-4))

		const maxShow = 8
		var suggestions []string
		for i, cmd := range v.cmdSuggestions {
			if i >= maxShow {
				suggestions = append(suggestions, lipgloss.NewStyle().
					Foreground(t.Subtle).
					Render(fmt.Sprintf("  ... +%d more", len(v.cmdSuggestions)-maxShow)))
				break
			}

			nameStyle := lipgloss.NewStyle().Bold(true).Width(12)
			descStyle := lipgloss.NewStyle().Foreground(t.Subtle)
			usageStyle := lipgloss.NewStyle().Foreground(t.Info).Italic(true)
			if i == v.cmdCursor {
				nameStyle = nameStyle.Background(t.Highlight).Foreground(t.Foreground)
				descStyle = descStyle.Background(t.Highlight)
			}

			line := nameStyle.Render(cmd.Name) + descStyle.Render(" "+cmd.Description)
			if cmd.HasArgs {
				line += usageStyle.Render("  " + cmd.Usage)
			}
			suggestions = append(suggestions, line)
		}

		b.WriteString(suggestionBox.Render(strings.Join(suggestions, "\n")))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.Subtle).Italic(true).Render("↑/↓ select • tab complete • enter execute"))
	}
	b.WriteString("\n")
	return b.String()
}
