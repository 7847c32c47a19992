package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"movie-review/internal/domain"
	"movie-review/internal/repository"
)

const createReviewLikesTable = `
CREATE TABLE IF NOT EXISTS review_likes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	review_id INTEGER NOT NULL REFERENCES reviews (id) ON DELETE CASCADE,
	is_liked INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	UNIQUE (user_id, review_id)
);
`

type ReviewLikeRepository struct {
	db *sql.DB
}

func NewReviewLikeRepository(db *sql.DB) repository.ReviewLikeRepository {
	return &ReviewLikeRepository{db: db}
}

func (r *ReviewLikeRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createReviewLikesTable); err != nil {
		return fmt.Errorf("create review_likes table: %w", err)
	}
	return nil
}

func (r *ReviewLikeRepository) Get(ctx context.Context, userID, reviewID int64) (*domain.ReviewLike, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, review_id, is_liked, created_at
FROM review_likes
WHERE user_id = ? AND review_id = ?`,
		userID, reviewID,
	)
	return scanReviewLike(row)
}

func (r *ReviewLikeRepository) GetOrCreate(ctx context.Context, userID, reviewID int64) (*domain.ReviewLike, error) {
	like, err := r.Get(ctx, userID, reviewID)
	if err == nil {
		return like, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
INSERT INTO review_likes (user_id, review_id, is_liked, created_at)
VALUES (?, ?, 1, ?)`,
		userID, reviewID, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert review like: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("review like last insert id: %w", err)
	}
	return &domain.ReviewLike{ID: id, UserID: userID, ReviewID: reviewID, IsLiked: true, CreatedAt: now}, nil
}

func (r *ReviewLikeRepository) SetLiked(ctx context.Context, id int64, liked bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE review_likes SET is_liked=? WHERE id=?`, liked, id)
	if err != nil {
		return fmt.Errorf("update review like: %w", err)
	}
	return nil
}

func (r *ReviewLikeRepository) CountByReview(ctx context.Context, reviewID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM review_likes WHERE review_id = ? AND is_liked = 1`, reviewID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count review likes: %w", err)
	}
	return count, nil
}

func scanReviewLike(row interface {
	Scan(dest ...any) error
}) (*domain.ReviewLike, error) {
	var like domain.ReviewLike
	if err := row.Scan(
		&like.ID,
		&like.UserID,
		&like.ReviewID,
		&like.IsLiked,
		&like.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("review like: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan review like: %w", err)
	}
	return &like, nil
}
