package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alphabot-ai/quill/internal/model"
	"github.com/alphabot-ai/quill/internal/store"
)

const userColumns = `id, name, email, password_hash, active, confirmed_at, last_login_at, current_login_at,
	last_login_ip, current_login_ip, login_count, created_at`

func (s *Store) CreateUser(ctx context.Context, user *model.User) (int64, error) {
	var confirmed any
	if user.ConfirmedAt != nil {
		confirmed = user.ConfirmedAt.Unix()
	}
	res, err := s.db.ExecContext(ctx, `
INSERT INTO users (name, email, password_hash, active, confirmed_at, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`, user.Name, user.Email, user.PasswordHash, boolToInt(user.Active), confirmed, unixTime(user.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return 0, store.ErrDuplicateEmail
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetUser(ctx context.Context, id int64) (model.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (s *Store) EnsureRole(ctx context.Context, name, description string) (model.Role, error) {
	if _, err := s.db.ExecContext(ctx, `
INSERT INTO roles (name, description) VALUES (?, ?)
ON CONFLICT(name) DO NOTHING
`, name, nullIfEmpty(description)); err != nil {
		return model.Role{}, err
	}
	var r model.Role
	var desc sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT id, name, description FROM roles WHERE name = ?`, name).
		Scan(&r.ID, &r.Name, &desc)
	if err != nil {
		return model.Role{}, err
	}
	r.Description = desc.String
	return r, nil
}

func (s *Store) AddRoleToUser(ctx context.Context, userID, roleID int64) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO roles_users (user_id, role_id) VALUES (?, ?)
ON CONFLICT(user_id, role_id) DO NOTHING
`, userID, roleID)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("user %d or role %d: %w", userID, roleID, store.ErrNotFound)
	}
	return err
}

func (s *Store) ListUserRoles(ctx context.Context, userID int64) ([]model.Role, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT r.id, r.name, r.description
FROM roles r
JOIN roles_users ru ON ru.role_id = r.id
WHERE ru.user_id = ?
ORDER BY r.name
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []model.Role
	for rows.Next() {
		var r model.Role
		var desc sql.NullString
		if err := rows.Scan(&r.ID, &r.Name, &desc); err != nil {
			return nil, err
		}
		r.Description = desc.String
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

func (s *Store) StartSession(ctx context.Context, session model.Session) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		now := unixTime(session.CreatedAt)
		res, err := tx.ExecContext(ctx, `
UPDATE users SET
	last_login_at = COALESCE(current_login_at, ?),
	last_login_ip = COALESCE(current_login_ip, ?),
	current_login_at = ?,
	current_login_ip = ?,
	login_count = login_count + 1
WHERE id = ?
`, now, nullIfEmpty(session.IP), now, nullIfEmpty(session.IP), session.UserID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("user %d: %w", session.UserID, store.ErrNotFound)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
INSERT INTO sessions (id, user_id, ip, created_at, expires_at)
VALUES (?, ?, ?, ?, ?)
`, session.ID, session.UserID, nullIfEmpty(session.IP), now, session.ExpiresAt.Unix())
		return err
	})
}

func (s *Store) GetSession(ctx context.Context, id string) (model.Session, error) {
	var sess model.Session
	var ip sql.NullString
	var created, expires int64
	err := s.db.QueryRowContext(ctx, `
SELECT id, user_id, ip, created_at, expires_at FROM sessions WHERE id = ?
`, id).Scan(&sess.ID, &sess.UserID, &ip, &created, &expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Session{}, store.ErrNotFound
		}
		return model.Session{}, err
	}
	sess.IP = ip.String
	sess.CreatedAt = fromUnix(created)
	sess.ExpiresAt = fromUnix(expires)
	return sess, nil
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanUser(row scanner) (model.User, error) {
	var u model.User
	var active int
	var confirmed, lastLogin, currentLogin sql.NullInt64
	var lastIP, currentIP sql.NullString
	var created int64
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &active, &confirmed, &lastLogin, &currentLogin,
		&lastIP, &currentIP, &u.LoginCount, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, store.ErrNotFound
		}
		return model.User{}, err
	}
	u.Active = active == 1
	u.ConfirmedAt = nullableTime(confirmed)
	u.LastLoginAt = nullableTime(lastLogin)
	u.CurrentLoginAt = nullableTime(currentLogin)
	u.LastLoginIP = lastIP.String
	u.CurrentLoginIP = currentIP.String
	u.CreatedAt = fromUnix(created)
	return u, nil
}
