package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"movie-review/internal/domain"
	"movie-review/internal/repository"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	hashed_password TEXT NOT NULL,
	age INTEGER NOT NULL,
	gender TEXT NOT NULL,
	profile_image_url TEXT NOT NULL DEFAULT '',
	last_login DATETIME NULL,
	created_at DATETIME NOT NULL
);
`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	user.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (username, hashed_password, age, gender, profile_image_url, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		user.Username,
		user.HashedPassword,
		user.Age,
		string(user.Gender),
		user.ProfileImageURL,
		user.CreatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return 0, fmt.Errorf("user %q: %w", user.Username, repository.ErrDuplicate)
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user last insert id: %w", err)
	}
	user.ID = id
	return id, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, username, hashed_password, age, gender, profile_image_url, last_login, created_at
FROM users
WHERE username = ?`,
		username,
	)
	return scanUser(row)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, username, hashed_password, age, gender, profile_image_url, last_login, created_at
FROM users
WHERE id = ?`,
		id,
	)
	return scanUser(row)
}

func (r *UserRepository) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	query := `
SELECT id, username, hashed_password, age, gender, profile_image_url, last_login, created_at
FROM users`
	var (
		conds []string
		args  []any
	)
	if filter.Username != nil {
		conds = append(conds, "username = ?")
		args = append(args, *filter.Username)
	}
	if filter.Age != nil {
		conds = append(conds, "age = ?")
		args = append(args, *filter.Age)
	}
	if filter.Gender != nil {
		conds = append(conds, "gender = ?")
		args = append(args, string(*filter.Gender))
	}
	if len(conds) > 0 {
		query += "\nWHERE " + strings.Join(conds, " AND ")
	}
	query += "\nORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE users
SET username=?, hashed_password=?, age=?, gender=?, profile_image_url=?
WHERE id=?`,
		user.Username,
		user.HashedPassword,
		user.Age,
		string(user.Gender),
		user.ProfileImageURL,
		user.ID,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return fmt.Errorf("user %q: %w", user.Username, repository.ErrDuplicate)
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("user delete rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("user %d: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login=? WHERE id=?`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var (
		user      domain.User
		gender    string
		lastLogin sql.NullTime
	)
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.HashedPassword,
		&user.Age,
		&gender,
		&user.ProfileImageURL,
		&lastLogin,
		&user.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.Gender = domain.Gender(gender)
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLogin = &t
	}
	return &user, nil
}
