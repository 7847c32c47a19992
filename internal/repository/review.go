package repository

import (
	"context"

	"movie-review/internal/domain"
)

// ReviewRepository defines persistence operations for Review entities.
type ReviewRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, review *domain.Review) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	ListByMovie(ctx context.Context, movieID int64) ([]domain.Review, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Review, error)
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id int64) error
}

// ReviewLikeRepository defines persistence operations for per-user
// review like state.
type ReviewLikeRepository interface {
	Init(ctx context.Context) error
	Get(ctx context.Context, userID, reviewID int64) (*domain.ReviewLike, error)
	GetOrCreate(ctx context.Context, userID, reviewID int64) (*domain.ReviewLike, error)
	SetLiked(ctx context.Context, id int64, liked bool) error
	CountByReview(ctx context.Context, reviewID int64) (int64, error)
}
