package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/alphabot-ai/quill/internal/model"
)

// Months are bucketed in UTC, matching how created_at is stored.
func (s *Store) ListArchiveMonths(ctx context.Context) ([]model.ArchiveMonth, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT CAST(strftime('%Y', created_at, 'unixepoch') AS INTEGER) AS y,
	CAST(strftime('%m', created_at, 'unixepoch') AS INTEGER) AS m,
	COUNT(*)
FROM posts
GROUP BY y, m
ORDER BY y DESC, m DESC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	months := []model.ArchiveMonth{}
	for rows.Next() {
		var m model.ArchiveMonth
		if err := rows.Scan(&m.Year, &m.Month, &m.Count); err != nil {
			return nil, err
		}
		months = append(months, m)
	}
	return months, rows.Err()
}

func (s *Store) ListPostsInMonth(ctx context.Context, year, month int) ([]model.PostSummary, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("invalid month %d", month)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	rows, err := s.db.QueryContext(ctx, `
SELECT id, title, created_at
FROM posts
WHERE created_at >= ? AND created_at < ?
ORDER BY created_at DESC, id DESC
`, start.Unix(), end.Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []model.PostSummary{}
	for rows.Next() {
		var p model.PostSummary
		var created int64
		if err := rows.Scan(&p.ID, &p.Title, &created); err != nil {
			return nil, err
		}
		p.CreatedAt = fromUnix(created)
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
