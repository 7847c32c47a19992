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

const createReviewsTable = `
CREATE TABLE IF NOT EXISTS reviews (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	movie_id INTEGER NOT NULL REFERENCES movies (id) ON DELETE CASCADE,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	review_image_url TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	UNIQUE (user_id, movie_id)
);
`

type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createReviewsTable); err != nil {
		return fmt.Errorf("create reviews table: %w", err)
	}
	return nil
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) (int64, error) {
	review.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO reviews (user_id, movie_id, title, content, review_image_url, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		review.UserID,
		review.MovieID,
		review.Title,
		review.Content,
		review.ReviewImageURL,
		review.CreatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return 0, fmt.Errorf("review for movie %d by user %d: %w", review.MovieID, review.UserID, repository.ErrDuplicate)
		}
		return 0, fmt.Errorf("insert review: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("review last insert id: %w", err)
	}
	review.ID = id
	return id, nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, movie_id, title, content, review_image_url, created_at
FROM reviews
WHERE id = ?`,
		id,
	)
	return scanReview(row)
}

func (r *ReviewRepository) ListByMovie(ctx context.Context, movieID int64) ([]domain.Review, error) {
	return r.list(ctx, "movie_id", movieID)
}

func (r *ReviewRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Review, error) {
	return r.list(ctx, "user_id", userID)
}

func (r *ReviewRepository) list(ctx context.Context, column string, value int64) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
SELECT id, user_id, movie_id, title, content, review_image_url, created_at
FROM reviews
WHERE %s = ?
ORDER BY id ASC`, column),
		value,
	)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *review)
	}
	return reviews, rows.Err()
}

func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE reviews
SET title=?, content=?, review_image_url=?
WHERE id=?`,
		review.Title,
		review.Content,
		review.ReviewImageURL,
		review.ID,
	)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("review delete rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("review %d: %w", id, repository.ErrNotFound)
	}
	return nil
}

func scanReview(row interface {
	Scan(dest ...any) error
}) (*domain.Review, error) {
	var review domain.Review
	if err := row.Scan(
		&review.ID,
		&review.UserID,
		&review.MovieID,
		&review.Title,
		&review.Content,
		&review.ReviewImageURL,
		&review.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("review: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan review: %w", err)
	}
	return &review, nil
}
