package repository

import (
	"context"

	"movie-review/internal/domain"
)

// UserFilter narrows user listings. Nil fields are ignored.
type UserFilter struct {
	Username *string
	Age      *int
	Gender   *domain.Gender
}

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
	TouchLastLogin(ctx context.Context, id int64) error
}
