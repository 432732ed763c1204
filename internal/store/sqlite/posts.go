package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alphabot-ai/quill/internal/model"
	"github.com/alphabot-ai/quill/internal/store"
)

const postSelect = `
SELECT p.id, p.title, p.body, p.description, p.created_at, p.author_id, u.name, u.email,
	p.category_id, c.name, i.id, i.url, i.filename, i.created_at
FROM posts p
JOIN users u ON u.id = p.author_id
JOIN categories c ON c.id = p.category_id
LEFT JOIN images i ON i.post_id = p.id
`

func (s *Store) CreatePost(ctx context.Context, in store.PostInput) (int64, error) {
	var postID int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		categoryID, err := resolveCategory(ctx, tx, in.CategoryName)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
INSERT INTO posts (title, body, description, created_at, author_id, category_id)
VALUES (?, ?, ?, ?, ?, ?)
`, in.Title, in.Body, nullIfEmpty(in.Description), unixTime(in.CreatedAt), in.AuthorID, categoryID)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("author %d: %w", in.AuthorID, store.ErrNotFound)
			}
			return err
		}
		postID, err = res.LastInsertId()
		if err != nil {
			return err
		}
		return attachImage(ctx, tx, postID, in.ImageID)
	})
	if err != nil {
		return 0, err
	}
	return postID, nil
}

func (s *Store) UpdatePost(ctx context.Context, id int64, in store.PostInput) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		categoryID, err := resolveCategory(ctx, tx, in.CategoryName)
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `
UPDATE posts SET title = ?, body = ?, description = ?, category_id = ? WHERE id = ?
`, in.Title, in.Body, nullIfEmpty(in.Description), categoryID, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("article %d: %w", id, store.ErrNotFound)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE images SET post_id = NULL WHERE post_id = ?`, id); err != nil {
			return err
		}
		return attachImage(ctx, tx, id, in.ImageID)
	})
}

func (s *Store) GetPost(ctx context.Context, id int64) (model.Post, error) {
	row := s.db.QueryRowContext(ctx, postSelect+`WHERE p.id = ?`, id)
	p, err := scanPost(row)
	if errors.Is(err, store.ErrNotFound) {
		return model.Post{}, fmt.Errorf("article %d: %w", id, store.ErrNotFound)
	}
	return p, err
}

func (s *Store) ListPosts(ctx context.Context) ([]model.Post, error) {
	rows, err := s.db.QueryContext(ctx, postSelect+`ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *Store) DeletePost(ctx context.Context, id int64) (*model.Image, error) {
	var image *model.Image
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var img model.Image
		var created int64
		err := tx.QueryRowContext(ctx, `
SELECT id, url, filename, created_at FROM images WHERE post_id = ?
`, id).Scan(&img.ID, &img.URL, &img.Filename, &created)
		switch {
		case err == nil:
			img.CreatedAt = fromUnix(created)
			img.PostID = &id
			image = &img
			if _, err := tx.ExecContext(ctx, `DELETE FROM images WHERE id = ?`, img.ID); err != nil {
				return err
			}
		case !errors.Is(err, sql.ErrNoRows):
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE post_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("article %d: %w", id, store.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return image, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT c.id, c.name, COUNT(p.id)
FROM categories c
LEFT JOIN posts p ON p.category_id = c.id
GROUP BY c.id, c.name
ORDER BY c.name ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.PostCount); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// resolveCategory returns the id of the named category, creating it first
// if no category has that name yet.
func resolveCategory(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if _, err := tx.ExecContext(ctx, `
INSERT INTO categories (name) VALUES (?)
ON CONFLICT(name) DO NOTHING
`, name); err != nil {
		return 0, err
	}
	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM categories WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func attachImage(ctx context.Context, tx *sql.Tx, postID int64, imageID *int64) error {
	if imageID == nil {
		return nil
	}
	var owner sql.NullInt64
	err := tx.QueryRowContext(ctx, `SELECT post_id FROM images WHERE id = ?`, *imageID).Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("image %d: %w", *imageID, store.ErrNotFound)
		}
		return err
	}
	if owner.Valid && owner.Int64 != postID {
		return fmt.Errorf("image %d: %w", *imageID, store.ErrImageAttached)
	}
	_, err = tx.ExecContext(ctx, `UPDATE images SET post_id = ? WHERE id = ?`, postID, *imageID)
	return err
}

func scanPost(row scanner) (model.Post, error) {
	var p model.Post
	var desc sql.NullString
	var created int64
	var imgID, imgCreated sql.NullInt64
	var imgURL, imgFilename sql.NullString
	if err := row.Scan(&p.ID, &p.Title, &p.Body, &desc, &created, &p.AuthorID, &p.AuthorName, &p.AuthorEmail,
		&p.CategoryID, &p.CategoryName, &imgID, &imgURL, &imgFilename, &imgCreated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Post{}, store.ErrNotFound
		}
		return model.Post{}, err
	}
	p.Description = desc.String
	p.CreatedAt = fromUnix(created)
	if imgID.Valid {
		postID := p.ID
		p.Image = &model.Image{
			ID:        imgID.Int64,
			URL:       imgURL.String,
			Filename:  imgFilename.String,
			PostID:    &postID,
			CreatedAt: fromUnix(imgCreated.Int64),
		}
	}
	return p, nil
}
