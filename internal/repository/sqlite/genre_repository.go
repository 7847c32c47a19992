package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"movie-review/internal/domain"
	"movie-review/internal/repository"
)

const createGenresTable = `
CREATE TABLE IF NOT EXISTS genres (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	external_id INTEGER NOT NULL UNIQUE,
	name TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
`

type GenreRepository struct {
	db *sql.DB
}

func NewGenreRepository(db *sql.DB) repository.GenreRepository {
	return &GenreRepository{db: db}
}

func (r *GenreRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createGenresTable); err != nil {
		return fmt.Errorf("create genres table: %w", err)
	}
	return nil
}

func (r *GenreRepository) Create(ctx context.Context, genre *domain.Genre) (int64, error) {
	genre.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO genres (external_id, name, created_at)
VALUES (?, ?, ?)`,
		genre.ExternalID,
		genre.Name,
		genre.CreatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return 0, fmt.Errorf("genre %q: %w", genre.Name, repository.ErrDuplicate)
		}
		return 0, fmt.Errorf("insert genre: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("genre last insert id: %w", err)
	}
	genre.ID = id
	return id, nil
}

func (r *GenreRepository) List(ctx context.Context) ([]domain.Genre, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, external_id, name, created_at
FROM genres
ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query genres: %w", err)
	}
	defer rows.Close()

	var genres []domain.Genre
	for rows.Next() {
		var genre domain.Genre
		if err := rows.Scan(&genre.ID, &genre.ExternalID, &genre.Name, &genre.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		genres = append(genres, genre)
	}
	return genres, rows.Err()
}

func (r *GenreRepository) ExistsByExternalID(ctx context.Context, externalID int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM genres WHERE external_id = ?`, externalID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count genres by external id: %w", err)
	}
	return count > 0, nil
}

func (r *GenreRepository) IDsByExternalIDs(ctx context.Context, externalIDs []int64) ([]int64, error) {
	if len(externalIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(externalIDs))
	args := make([]any, len(externalIDs))
	for i, id := range externalIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(
		`SELECT id FROM genres WHERE external_id IN (%s) ORDER BY id ASC`,
		strings.Join(placeholders, ","),
	)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query genre ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan genre id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
