package menu

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dori/tickle/internal/model"
)

const (
	titleWidth       = 20
	descriptionWidth = 25
)

func (m *Menu) renderTasks(tasks []model.Task, empty string) {
	if len(tasks) == 0 {
		m.println(empty)
		return
	}

	now := m.mgr.Now()
	rows := make([][]string, len(tasks))
	for i, t := range tasks {
		status := "[ ]"
		if t.Completed {
			status = "[x]"
		} else if t.IsOverdueAt(now) {
			status = "[!]"
		}
		tags := make([]string, len(t.Tags))
		for j, tag := range t.Tags {
			tags[j] = "@" + tag
		}
		rows[i] = []string{
			strconv.Itoa(t.ID),
			status,
			string(t.Priority),
			truncate(t.Title, titleWidth),
			model.FormatDue(t.Due),
			recurrenceLabel(t.Recurrence),
			strings.Join(tags, " "),
			truncate(t.Description, descriptionWidth),
		}
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(m.heading.UnsetBold()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return m.heading.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("ID", "Status", "Priority", "Title", "Due", "Repeats", "Tags", "Description").
		Rows(rows...)

	m.println(tbl.Render())
}

// truncate shortens s to width runes, ending with ".."
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-2]) + ".."
}

func recurrenceLabel(r model.Recurrence) string {
	if r == model.RecurrenceNone {
		return ""
	}
	return string(r)
}
