package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alphabot-ai/quill/internal/model"
	"github.com/alphabot-ai/quill/internal/store"
)

const commentSelect = `
SELECT c.id, c.body, c.created_at, c.author_id, u.name, u.email, c.post_id, p.title
FROM comments c
JOIN users u ON u.id = c.author_id
JOIN posts p ON p.id = c.post_id
`

func (s *Store) CreateComment(ctx context.Context, comment *model.Comment) (int64, error) {
	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := postExists(ctx, tx, comment.PostID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
INSERT INTO comments (body, created_at, author_id, post_id)
VALUES (?, ?, ?, ?)
`, comment.Body, unixTime(comment.CreatedAt), comment.AuthorID, comment.PostID)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("author %d: %w", comment.AuthorID, store.ErrNotFound)
			}
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) GetComment(ctx context.Context, id int64) (model.Comment, error) {
	return scanComment(s.db.QueryRowContext(ctx, commentSelect+`WHERE c.id = ?`, id))
}

func (s *Store) ListCommentsByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	if err := postExists(ctx, s.db, postID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, commentSelect+`
WHERE c.post_id = ?
ORDER BY c.created_at ASC, c.id ASC
`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func postExists(ctx context.Context, q queryRower, postID int64) error {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM posts WHERE id = ?`, postID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("article %d: %w", postID, store.ErrNotFound)
	}
	return err
}

func scanComment(row scanner) (model.Comment, error) {
	var c model.Comment
	var created int64
	if err := row.Scan(&c.ID, &c.Body, &created, &c.AuthorID, &c.AuthorName, &c.AuthorEmail, &c.PostID, &c.PostTitle); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Comment{}, store.ErrNotFound
		}
		return model.Comment{}, err
	}
	c.CreatedAt = fromUnix(created)
	return c, nil
}
