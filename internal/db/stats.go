package db

import (
	"fmt"
	"time"

	"github.com/dori/tickle/internal/model"
)

// DefaultTopTags is how many tags Stats ranks
const DefaultTopTags = 5

// Stats summarizes the mirrored task list
type Stats struct {
	Total     int
	Completed int
	Open      int
	Overdue   int
	DueToday  int
	Recurring int

	// Open tasks per priority
	ByPriority map[model.Priority]int

	// Tags ranked by open-task count
	TopTags []TagCount
}

// CompletionRate returns the completed share in [0, 1]
func (s Stats) CompletionRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total)
}

// Stats computes the summary relative to now
func (db *DB) Stats(now time.Time) (Stats, error) {
	s := Stats{ByPriority: map[model.Priority]int{}}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	err := db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(completed), 0),
			COALESCE(SUM(CASE WHEN completed = 0 AND due_unix < ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN completed = 0 AND due_unix >= ? AND due_unix < ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN recurrence != 'none' THEN 1 ELSE 0 END), 0)
		FROM tasks
	`, now.Unix(), startOfDay.Unix(), endOfDay.Unix()).Scan(
		&s.Total, &s.Completed, &s.Overdue, &s.DueToday, &s.Recurring,
	)
	if err != nil {
		return Stats{}, fmt.Errorf("count tasks: %w", err)
	}
	s.Open = s.Total - s.Completed

	rows, err := db.Query(`
		SELECT priority, COUNT(*) FROM tasks
		WHERE completed = 0
		GROUP BY priority
	`)
	if err != nil {
		return Stats{}, fmt.Errorf("count priorities: %w", err)
	}
	for rows.Next() {
		var p string
		var n int
		if err := rows.Scan(&p, &n); err != nil {
			rows.Close()
			return Stats{}, err
		}
		s.ByPriority[model.Priority(p)] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Stats{}, err
	}

	if s.TopTags, err = db.TagCounts(DefaultTopTags); err != nil {
		return Stats{}, fmt.Errorf("rank tags: %w", err)
	}
	return s, nil
}
