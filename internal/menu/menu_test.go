package menu

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dori/tickle/internal/db"
	"github.com/dori/tickle/internal/manager"
	"github.com/dori/tickle/internal/model"
	"github.com/dori/tickle/internal/reminder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local)

func newManager() *manager.Manager {
	return manager.New(manager.WithClock(func() time.Time { return fixedNow }))
}

// run feeds lines to a menu and returns everything it printed
func run(t *testing.T, mgr *manager.Manager, lines []string, opts ...Option) string {
	t.Helper()
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	var out bytes.Buffer
	require.NoError(t, New(mgr, in, &out, opts...).Run(context.Background()))
	return out.String()
}

func TestAddAndView(t *testing.T) {
	mgr := newManager()
	out := run(t, mgr, []string{
		"1", "pay rent", "monthly", "high", "bills, @home", "2024-07-01", "09:00", "monthly",
		"3",
		"0",
	})

	assert.Contains(t, out, "Task added successfully with ID: 1")
	assert.Contains(t, out, "pay rent")
	assert.Contains(t, out, "@bills @home")
	assert.Contains(t, out, "2024-07-01 09:00")
	assert.Contains(t, out, "Goodbye!")

	task, ok := mgr.Get(1)
	require.True(t, ok)
	assert.Equal(t, model.PriorityHigh, task.Priority)
	assert.Equal(t, model.RecurrenceMonthly, task.Recurrence)
	assert.Equal(t, []string{"bills", "home"}, task.Tags)
}

func TestAddRejectsEmptyTitle(t *testing.T) {
	mgr := newManager()
	out := run(t, mgr, []string{"1", "", "0"})

	assert.Contains(t, out, "Error: Task title cannot be empty.")
	assert.Equal(t, 0, mgr.Len())
}

func TestAddRejectsBadPriority(t *testing.T) {
	mgr := newManager()
	out := run(t, mgr, []string{"1", "x", "", "urgent", "0"})

	assert.Contains(t, out, `invalid priority "urgent"`)
	assert.Equal(t, 0, mgr.Len())
}

func TestQuickAdd(t *testing.T) {
	mgr := newManager()
	out := run(t, mgr, []string{"2", "call mom @family !h due:tomorrow", "0"})

	assert.Contains(t, out, "Task added successfully with ID: 1")
	task, _ := mgr.Get(1)
	assert.Equal(t, "call mom", task.Title)
	assert.Equal(t, []string{"family"}, task.Tags)
	require.NotNil(t, task.Due)
	assert.Equal(t, 16, task.Due.Day())
}

func TestViewEmpty(t *testing.T) {
	out := run(t, newManager(), []string{"3", "0"})
	assert.Contains(t, out, "No tasks yet.")
}

func TestInvalidChoice(t *testing.T) {
	out := run(t, newManager(), []string{"42", "abc", "0"})
	assert.Equal(t, 2, strings.Count(out, "Invalid choice"))
}

func TestEOFExits(t *testing.T) {
	out := run(t, newManager(), []string{"1", "half a task"})
	assert.Contains(t, out, "Exiting...")
}

func TestUpdateTask(t *testing.T) {
	mgr := newManager()
	_, err := mgr.Add(manager.NewTask{Title: "draft", Description: "old", Tags: []string{"a"}, Priority: model.PriorityLow})
	require.NoError(t, err)

	out := run(t, mgr, []string{
		"4", "1",
		"final", // title
		"-",     // description cleared
		"",      // priority kept
		"x, y",  // tags
		"",      // due kept
		"weekly",
		"0",
	})

	assert.Contains(t, out, "Task updated successfully.")
	task, _ := mgr.Get(1)
	assert.Equal(t, "final", task.Title)
	assert.Equal(t, "", task.Description)
	assert.Equal(t, model.PriorityLow, task.Priority)
	assert.Equal(t, []string{"x", "y"}, task.Tags)
	assert.Equal(t, model.RecurrenceWeekly, task.Recurrence)
}

func TestUpdateInvalidLeavesTaskUnchanged(t *testing.T) {
	mgr := newManager()
	_, err := mgr.Add(manager.NewTask{Title: "draft"})
	require.NoError(t, err)

	out := run(t, mgr, []string{"4", "1", "renamed", "", "bogus", "", "", "", "0"})

	assert.Contains(t, out, `invalid priority "bogus"`)
	task, _ := mgr.Get(1)
	assert.Equal(t, "draft", task.Title)
}

func TestUpdateUnknownAndNonNumericID(t *testing.T) {
	out := run(t, newManager(), []string{"4", "7", "4", "seven", "0"})

	assert.Contains(t, out, "Error: Task with ID 7 not found.")
	assert.Contains(t, out, "Please enter a valid task ID")
}

func TestDeleteTask(t *testing.T) {
	mgr := newManager()
	_, _ = mgr.Add(manager.NewTask{Title: "keep"})
	_, _ = mgr.Add(manager.NewTask{Title: "drop"})

	out := run(t, mgr, []string{"5", "1", "n", "5", "2", "yes", "0"})

	assert.Contains(t, out, "Deletion cancelled.")
	assert.Contains(t, out, "Task deleted successfully.")
	assert.Equal(t, 1, mgr.Len())
}

func TestToggleSpawnsRecurrence(t *testing.T) {
	mgr := newManager()
	due := time.Date(2024, 6, 15, 9, 0, 0, 0, time.Local)
	_, err := mgr.Add(manager.NewTask{Title: "standup", Due: &due, Recurrence: model.RecurrenceDaily})
	require.NoError(t, err)

	out := run(t, mgr, []string{"6", "1", "", "0"})

	assert.Contains(t, out, "Task marked as complete.")
	assert.Contains(t, out, "Next occurrence created with ID: 2")
	next, ok := mgr.Get(2)
	require.True(t, ok)
	assert.Equal(t, 16, next.Due.Day())
}

func TestSearchFilterSort(t *testing.T) {
	mgr := newManager()
	_, _ = mgr.Add(manager.NewTask{Title: "Buy milk", Tags: []string{"errands"}, Priority: model.PriorityLow})
	_, _ = mgr.Add(manager.NewTask{Title: "File taxes", Priority: model.PriorityHigh})

	out := run(t, mgr, []string{
		"7", "MILK",
		"8", "open", "high", "", "", "", "",
		"9", "priority",
		"9", "random",
		"0",
	})

	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "File taxes")
	assert.Contains(t, out, "Sort order set to priority.")
	assert.Contains(t, out, `invalid sort "random"`)
	assert.Equal(t, model.SortByPriority, mgr.SortOrder())
}

func TestReminders(t *testing.T) {
	mgr := newManager()
	late := fixedNow.Add(-time.Hour)
	soon := fixedNow.Add(3 * time.Hour)
	_, _ = mgr.Add(manager.NewTask{Title: "late one", Due: &late})
	_, _ = mgr.Add(manager.NewTask{Title: "soon one", Due: &soon})

	p := reminder.New(mgr)
	p.Check()
	out := run(t, mgr, []string{"10", "0"}, WithReport(p.Last))

	assert.Contains(t, out, "Reminders: 1 overdue, 2 due today, 1 due soon")
	assert.Contains(t, out, "Overdue (1)")
	assert.Contains(t, out, "#1 late one")
	assert.Contains(t, out, "Due in the next 24 hours (1)")
}

func TestStatistics(t *testing.T) {
	mgr := newManager()
	_, _ = mgr.Add(manager.NewTask{Title: "a", Tags: []string{"home"}})
	_, _ = mgr.Add(manager.NewTask{Title: "b", Tags: []string{"home"}})
	_, _ = mgr.MarkComplete(2, true)

	out := run(t, mgr, []string{"11", "0"})
	assert.Contains(t, out, "Statistics unavailable.")

	mirror, err := db.Open()
	require.NoError(t, err)
	defer mirror.Close()

	out = run(t, mgr, []string{"11", "0"}, WithMirror(mirror))
	assert.Contains(t, out, "Total: 2  Open: 1  Completed: 1 (50%)")
	assert.Contains(t, out, "Top tags: @home (1)")
}

func TestRunStopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := New(newManager(), strings.NewReader("1\n"), &out).Run(ctx)
	require.NoError(t, err)
	assert.NotContains(t, out.String(), "Add New Task")
}
