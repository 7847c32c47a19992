package repository

import (
	"context"

	"movie-review/internal/domain"
)

// MovieFilter narrows movie listings. Title matches case-insensitive
// substrings; GenreIDs selects movies linked to any of the ids.
type MovieFilter struct {
	Title    string
	GenreIDs []int64
}

// MovieRepository defines persistence operations for Movie entities.
// Reads return movies with their genres populated.
type MovieRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, movie *domain.Movie, genreIDs []int64) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Movie, error)
	List(ctx context.Context, filter MovieFilter) ([]domain.Movie, error)
	Update(ctx context.Context, movie *domain.Movie) error
	SetGenres(ctx context.Context, movieID int64, genreIDs []int64) error
	Delete(ctx context.Context, id int64) error
	ExistsByExternalID(ctx context.Context, externalID int64) (bool, error)
}

// GenreRepository defines persistence operations for Genre entities.
type GenreRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, genre *domain.Genre) (int64, error)
	List(ctx context.Context) ([]domain.Genre, error)
	ExistsByExternalID(ctx context.Context, externalID int64) (bool, error)
	IDsByExternalIDs(ctx context.Context, externalIDs []int64) ([]int64, error)
}
