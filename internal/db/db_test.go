package db

import (
	"database/sql"
	"slices"
	"testing"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/dori/tickle/internal/model"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.Local)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open()
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func ptrTime(t time.Time) *time.Time { return &t }

func ptrInt(i int) *int { return &i }

func sampleTasks() []model.Task {
	created := testNow.Add(-48 * time.Hour)
	return []model.Task{
		{ID: 1, Title: "pay rent", Priority: model.PriorityHigh, Tags: []string{"bills", "home"},
			CreatedAt: created, Due: ptrTime(testNow.Add(-24 * time.Hour)), Recurrence: model.RecurrenceMonthly},
		{ID: 2, Title: "buy milk", Priority: model.PriorityLow, Tags: []string{"home"},
			CreatedAt: created, Recurrence: model.RecurrenceNone},
		{ID: 3, Title: "call mom", Priority: model.PriorityHigh, Tags: []string{},
			CreatedAt: created, Due: ptrTime(testNow.Add(6 * time.Hour)), Recurrence: model.RecurrenceNone},
		{ID: 4, Title: "old report", Priority: model.PriorityMedium, Completed: true, Tags: []string{"work"},
			CreatedAt: created, Due: ptrTime(testNow.Add(-72 * time.Hour)), Recurrence: model.RecurrenceNone},
		{ID: 5, Title: "pay rent", Priority: model.PriorityHigh, Tags: []string{"bills"},
			CreatedAt: created, Due: ptrTime(testNow.AddDate(0, 1, -1)), Recurrence: model.RecurrenceMonthly,
			RecurrenceParentID: ptrInt(1)},
	}
}

// countRows counts rows in a mirror table
func countRows(t *testing.T, db *DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

// storedTags returns the tag rows of a task in position order
func storedTags(t *testing.T, db *DB, taskID int) []string {
	t.Helper()
	rows, err := db.Query(`SELECT tag FROM task_tags WHERE task_id = ? ORDER BY position`, taskID)
	if err != nil {
		t.Fatalf("query tags: %v", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			t.Fatalf("scan tag: %v", err)
		}
		tags = append(tags, tag)
	}
	return tags
}

func TestOpenRunsMigrations(t *testing.T) {
	db := openTestDB(t)

	version, err := goose.GetDBVersion(db.DB)
	if err != nil {
		t.Fatalf("GetDBVersion: %v", err)
	}
	if version < 1 {
		t.Errorf("schema version = %d, want >= 1", version)
	}
	if n := countRows(t, db, "tasks"); n != 0 {
		t.Errorf("fresh mirror has %d tasks", n)
	}
}

func TestOpenIsPrivate(t *testing.T) {
	a := openTestDB(t)
	b := openTestDB(t)

	if err := a.Sync(sampleTasks()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if n := countRows(t, b, "tasks"); n != 0 {
		t.Errorf("second mirror sees %d tasks from the first", n)
	}
}

func TestSyncStoresTasks(t *testing.T) {
	db := openTestDB(t)
	want := sampleTasks()

	if err := db.Sync(want); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if n := countRows(t, db, "tasks"); n != len(want) {
		t.Fatalf("got %d tasks, want %d", n, len(want))
	}

	var title string
	var completed int
	var due, parent sql.NullInt64
	err := db.QueryRow(`SELECT title, completed, due_unix, recurrence_parent_id FROM tasks WHERE id = 5`).
		Scan(&title, &completed, &due, &parent)
	if err != nil {
		t.Fatalf("query task 5: %v", err)
	}
	if title != "pay rent" || completed != 0 {
		t.Errorf("task 5 = %q completed=%d", title, completed)
	}
	if !due.Valid || due.Int64 != want[4].Due.Unix() {
		t.Errorf("task 5 due = %v, want %d", due, want[4].Due.Unix())
	}
	if !parent.Valid || parent.Int64 != 1 {
		t.Errorf("task 5 parent = %v, want 1", parent)
	}

	if got := storedTags(t, db, 1); !slices.Equal(got, []string{"bills", "home"}) {
		t.Errorf("task 1 tags = %v", got)
	}
}

func TestSyncKeepsTagOrderAndDuplicates(t *testing.T) {
	db := openTestDB(t)
	tasks := []model.Task{
		{ID: 1, Title: "sort inbox", Priority: model.PriorityMedium, Recurrence: model.RecurrenceNone,
			Tags: []string{"b", "a", "b"}, CreatedAt: testNow},
	}

	if err := db.Sync(tasks); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if got := storedTags(t, db, 1); !slices.Equal(got, []string{"b", "a", "b"}) {
		t.Errorf("tags = %v, want [b a b]", got)
	}

	counts, err := db.TagCounts(0)
	if err != nil {
		t.Fatalf("TagCounts: %v", err)
	}
	want := []TagCount{{Tag: "a", Count: 1}, {Tag: "b", Count: 1}}
	if !slices.Equal(counts, want) {
		t.Errorf("TagCounts = %v, want %v", counts, want)
	}
}

func TestSyncReplacesContents(t *testing.T) {
	db := openTestDB(t)

	if err := db.Sync(sampleTasks()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if err := db.Sync(sampleTasks()[:2]); err != nil {
		t.Fatalf("second Sync: %v", err)
	}

	if n := countRows(t, db, "tasks"); n != 2 {
		t.Errorf("tasks = %d, want 2", n)
	}
	if got := storedTags(t, db, 4); len(got) != 0 {
		t.Errorf("stale tag rows survived: %v", got)
	}
	if n := countRows(t, db, "task_tags"); n != 3 {
		t.Errorf("task_tags = %d, want 3", n)
	}
}

func TestSyncToleratesDanglingParent(t *testing.T) {
	db := openTestDB(t)
	tasks := sampleTasks()[4:] // child only; parent 1 was deleted

	if err := db.Sync(tasks); err != nil {
		t.Fatalf("Sync with dangling parent: %v", err)
	}
}

func TestStats(t *testing.T) {
	db := openTestDB(t)
	if err := db.Sync(sampleTasks()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	s, err := db.Stats(testNow)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	checks := []struct {
		name      string
		got, want int
	}{
		{"Total", s.Total, 5},
		{"Completed", s.Completed, 1},
		{"Open", s.Open, 4},
		{"Overdue", s.Overdue, 1},
		{"DueToday", s.DueToday, 1},
		{"Recurring", s.Recurring, 2},
		{"high", s.ByPriority[model.PriorityHigh], 3},
		{"medium", s.ByPriority[model.PriorityMedium], 0},
		{"low", s.ByPriority[model.PriorityLow], 1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %d, want %d", c.name, c.got, c.want)
		}
	}

	if len(s.TopTags) != 2 {
		t.Fatalf("TopTags = %v, want 2 entries", s.TopTags)
	}
	// bills and home both have two open tasks; ties break by name
	if s.TopTags[0] != (TagCount{Tag: "bills", Count: 2}) || s.TopTags[1] != (TagCount{Tag: "home", Count: 2}) {
		t.Errorf("TopTags = %v", s.TopTags)
	}

	if rate := s.CompletionRate(); rate != 0.2 {
		t.Errorf("CompletionRate = %v, want 0.2", rate)
	}
}

func TestStatsEmpty(t *testing.T) {
	db := openTestDB(t)

	s, err := db.Stats(testNow)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if s.Total != 0 || s.Overdue != 0 || len(s.TopTags) != 0 {
		t.Errorf("empty stats = %+v", s)
	}
	if s.CompletionRate() != 0 {
		t.Errorf("CompletionRate on empty = %v", s.CompletionRate())
	}
}
