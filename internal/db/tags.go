package db

// TagCount is a tag with the number of tasks carrying it
type TagCount struct {
	Tag   string
	Count int
}

// TagCounts returns tags ranked by how many open tasks carry them. A tag
// repeated on one task counts once. A limit of zero or less returns every tag.
func (db *DB) TagCounts(limit int) ([]TagCount, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.Query(`
		SELECT tt.tag, COUNT(DISTINCT tt.task_id) AS n
		FROM task_tags tt
		JOIN tasks t ON t.id = tt.task_id
		WHERE t.completed = 0
		GROUP BY tt.tag
		ORDER BY n DESC, tt.tag
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []TagCount{}
	for rows.Next() {
		var c TagCount
		if err := rows.Scan(&c.Tag, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
