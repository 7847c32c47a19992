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

const createMoviesTable = `
CREATE TABLE IF NOT EXISTS movies (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	external_id INTEGER NULL UNIQUE,
	title TEXT NOT NULL,
	overview TEXT NOT NULL,
	"cast" TEXT NOT NULL,
	runtime INTEGER NOT NULL,
	release_date DATE NOT NULL,
	poster_image_url TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS movies_genres (
	movie_id INTEGER NOT NULL REFERENCES movies (id) ON DELETE CASCADE,
	genre_id INTEGER NOT NULL REFERENCES genres (id) ON DELETE CASCADE,
	UNIQUE (movie_id, genre_id)
);
`

const selectMovieColumns = `id, external_id, title, overview, "cast", runtime, release_date, poster_image_url, created_at`

type MovieRepository struct {
	db *sql.DB
}

func NewMovieRepository(db *sql.DB) repository.MovieRepository {
	return &MovieRepository{db: db}
}

func (r *MovieRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createMoviesTable); err != nil {
		return fmt.Errorf("create movies tables: %w", err)
	}
	return nil
}

func (r *MovieRepository) Create(ctx context.Context, movie *domain.Movie, genreIDs []int64) (int64, error) {
	movie.CreatedAt = time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
INSERT INTO movies (external_id, title, overview, "cast", runtime, release_date, poster_image_url, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		nullInt64(movie.ExternalID),
		movie.Title,
		movie.Overview,
		movie.Cast,
		movie.Runtime,
		movie.ReleaseDate,
		movie.PosterImageURL,
		movie.CreatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return 0, fmt.Errorf("movie %q: %w", movie.Title, repository.ErrDuplicate)
		}
		return 0, fmt.Errorf("insert movie: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("movie last insert id: %w", err)
	}

	for _, genreID := range genreIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO movies_genres (movie_id, genre_id) VALUES (?, ?)`,
			id, genreID,
		); err != nil {
			return 0, fmt.Errorf("link movie genre: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit movie insert: %w", err)
	}
	movie.ID = id
	return id, nil
}

func (r *MovieRepository) GetByID(ctx context.Context, id int64) (*domain.Movie, error) {
	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM movies WHERE id = ?`, selectMovieColumns), id)

	movie, err := scanMovie(row)
	if err != nil {
		return nil, err
	}
	if err := r.attachGenres(ctx, movie); err != nil {
		return nil, err
	}
	return movie, nil
}

func (r *MovieRepository) List(ctx context.Context, filter repository.MovieFilter) ([]domain.Movie, error) {
	query := fmt.Sprintf(`SELECT DISTINCT m.%s FROM movies m`,
		strings.ReplaceAll(selectMovieColumns, ", ", ", m."))
	var (
		conds []string
		args  []any
	)
	if len(filter.GenreIDs) > 0 {
		placeholders := make([]string, len(filter.GenreIDs))
		for i, id := range filter.GenreIDs {
			placeholders[i] = "?"
			args = append(args, id)
		}
		query += `
JOIN movies_genres mg ON mg.movie_id = m.id`
		conds = append(conds, fmt.Sprintf("mg.genre_id IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Title != "" {
		conds = append(conds, "LOWER(m.title) LIKE ?")
		args = append(args, "%"+strings.ToLower(filter.Title)+"%")
	}
	if len(conds) > 0 {
		query += "\nWHERE " + strings.Join(conds, " AND ")
	}
	query += "\nORDER BY m.id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer rows.Close()

	var movies []domain.Movie
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *movie)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range movies {
		if err := r.attachGenres(ctx, &movies[i]); err != nil {
			return nil, err
		}
	}
	return movies, nil
}

func (r *MovieRepository) Update(ctx context.Context, movie *domain.Movie) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE movies
SET title=?, overview=?, "cast"=?, runtime=?, release_date=?, poster_image_url=?
WHERE id=?`,
		movie.Title,
		movie.Overview,
		movie.Cast,
		movie.Runtime,
		movie.ReleaseDate,
		movie.PosterImageURL,
		movie.ID,
	)
	if err != nil {
		return fmt.Errorf("update movie: %w", err)
	}
	return nil
}

func (r *MovieRepository) SetGenres(ctx context.Context, movieID int64, genreIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM movies_genres WHERE movie_id=?`, movieID); err != nil {
		return fmt.Errorf("clear movie genres: %w", err)
	}
	for _, genreID := range genreIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO movies_genres (movie_id, genre_id) VALUES (?, ?)`,
			movieID, genreID,
		); err != nil {
			return fmt.Errorf("link movie genre: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit genre links: %w", err)
	}
	return nil
}

func (r *MovieRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM movies_genres WHERE movie_id=?`, id); err != nil {
		return fmt.Errorf("clear movie genres: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM movies WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("movie delete rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("movie %d: %w", id, repository.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit movie delete: %w", err)
	}
	return nil
}

func (r *MovieRepository) ExistsByExternalID(ctx context.Context, externalID int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM movies WHERE external_id = ?`, externalID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count movies by external id: %w", err)
	}
	return count > 0, nil
}

func (r *MovieRepository) attachGenres(ctx context.Context, movie *domain.Movie) error {
	rows, err := r.db.QueryContext(ctx, `
SELECT g.id, g.external_id, g.name, g.created_at
FROM genres g
JOIN movies_genres mg ON mg.genre_id = g.id
WHERE mg.movie_id = ?
ORDER BY g.id ASC`,
		movie.ID,
	)
	if err != nil {
		return fmt.Errorf("query movie genres: %w", err)
	}
	defer rows.Close()

	movie.Genres = movie.Genres[:0]
	for rows.Next() {
		var genre domain.Genre
		if err := rows.Scan(&genre.ID, &genre.ExternalID, &genre.Name, &genre.CreatedAt); err != nil {
			return fmt.Errorf("scan movie genre: %w", err)
		}
		movie.Genres = append(movie.Genres, genre)
	}
	return rows.Err()
}

func scanMovie(row interface {
	Scan(dest ...any) error
}) (*domain.Movie, error) {
	var (
		movie      domain.Movie
		externalID sql.NullInt64
	)
	if err := row.Scan(
		&movie.ID,
		&externalID,
		&movie.Title,
		&movie.Overview,
		&movie.Cast,
		&movie.Runtime,
		&movie.ReleaseDate,
		&movie.PosterImageURL,
		&movie.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("movie: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan movie: %w", err)
	}
	if externalID.Valid {
		movie.ExternalID = externalID.Int64
	}
	return &movie, nil
}

func nullInt64(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}
