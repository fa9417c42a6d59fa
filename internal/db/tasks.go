package db

import (
	"database/sql"
	"fmt"

	"github.com/dori/tickle/internal/model"
)

const taskColumns = `id, title, description, completed, priority, created_unix,
	due_unix, recurrence, recurrence_parent_id`

// Sync replaces the mirror contents with tasks in one transaction.
// Tags are stored with their position so order and duplicates survive.
func (db *DB) Sync(tasks []model.Task) error {
	return db.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM task_tags`); err != nil {
			return fmt.Errorf("clear tags: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM tasks`); err != nil {
			return fmt.Errorf("clear tasks: %w", err)
		}

		insertTask, err := tx.Prepare(`INSERT INTO tasks (` + taskColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer insertTask.Close()

		insertTag, err := tx.Prepare(`INSERT INTO task_tags (task_id, position, tag) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer insertTag.Close()

		for _, t := range tasks {
			var due, parent interface{}
			if t.Due != nil {
				due = t.Due.Unix()
			}
			if t.RecurrenceParentID != nil {
				parent = *t.RecurrenceParentID
			}
			_, err := insertTask.Exec(t.ID, t.Title, t.Description, boolInt(t.Completed),
				string(t.Priority), t.CreatedAt.Unix(), due, string(t.Recurrence), parent)
			if err != nil {
				return fmt.Errorf("insert task %d: %w", t.ID, err)
			}
			for pos, tag := range t.Tags {
				if _, err := insertTag.Exec(t.ID, pos, tag); err != nil {
					return fmt.Errorf("insert tag %q on task %d: %w", tag, t.ID, err)
				}
			}
		}
		return nil
	})
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
