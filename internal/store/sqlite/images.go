package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alphabot-ai/quill/internal/model"
	"github.com/alphabot-ai/quill/internal/store"
)

func (s *Store) CreateImage(ctx context.Context, image *model.Image) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT INTO images (url, filename, post_id, created_at)
VALUES (?, ?, ?, ?)
`, image.URL, image.Filename, nullableInt(image.PostID), unixTime(image.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("photo %s: %w", image.Filename, store.ErrDuplicateName)
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetImage(ctx context.Context, id int64) (model.Image, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, url, filename, post_id, created_at FROM images WHERE id = ?
`, id)
	return scanImage(row)
}

func (s *Store) GetImageByFilename(ctx context.Context, filename string) (model.Image, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, url, filename, post_id, created_at FROM images WHERE filename = ?
`, filename)
	return scanImage(row)
}

func (s *Store) DeleteImage(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM images WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("image %d: %w", id, store.ErrNotFound)
	}
	return nil
}

func scanImage(row scanner) (model.Image, error) {
	var img model.Image
	var postID sql.NullInt64
	var created int64
	if err := row.Scan(&img.ID, &img.URL, &img.Filename, &postID, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Image{}, store.ErrNotFound
		}
		return model.Image{}, err
	}
	if postID.Valid {
		pid := postID.Int64
		img.PostID = &pid
	}
	img.CreatedAt = fromUnix(created)
	return img, nil
}
