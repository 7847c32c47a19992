package service

import (
	"context"
	"errors"
	"io"
	"time"

	"movie-review/internal/domain"
	"movie-review/internal/httperr"
	"movie-review/internal/repository"
	"movie-review/internal/storage"
)

// MovieCreate carries the fields of a new movie.
type MovieCreate struct {
	Title       string
	Overview    string
	Cast        string
	Runtime     int
	ReleaseDate time.Time
	GenreIDs    []int64
}

// MovieUpdate carries a partial movie update. Nil fields are
// untouched; a non-nil GenreIDs replaces the genre links.
type MovieUpdate struct {
	Title       *string
	Overview    *string
	Cast        *string
	Runtime     *int
	ReleaseDate *time.Time
	GenreIDs    []int64
}

// MovieService coordinates movie and genre operations.
type MovieService interface {
	Create(ctx context.Context, create MovieCreate) (*domain.Movie, error)
	Get(ctx context.Context, id int64) (*domain.Movie, error)
	List(ctx context.Context, filter repository.MovieFilter) ([]domain.Movie, error)
	Update(ctx context.Context, id int64, update MovieUpdate) (*domain.Movie, error)
	Delete(ctx context.Context, id int64) error
	UploadPosterImage(ctx context.Context, id int64, filename string, r io.Reader) (*domain.Movie, error)
}

type movieService struct {
	movies repository.MovieRepository
	media  storage.Service
}

func NewMovieService(movies repository.MovieRepository, media storage.Service) MovieService {
	return &movieService{movies: movies, media: media}
}

func (s *movieService) Create(ctx context.Context, create MovieCreate) (*domain.Movie, error) {
	if create.Title == "" {
		return nil, httperr.BadRequest("title is required")
	}
	if create.Runtime <= 0 {
		return nil, httperr.BadRequest("runtime must be positive")
	}

	movie := &domain.Movie{
		Title:       create.Title,
		Overview:    create.Overview,
		Cast:        create.Cast,
		Runtime:     create.Runtime,
		ReleaseDate: create.ReleaseDate,
	}
	id, err := s.movies.Create(ctx, movie, create.GenreIDs)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *movieService) Get(ctx context.Context, id int64) (*domain.Movie, error) {
	movie, err := s.movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, httperr.NotFound("Movie not found")
		}
		return nil, err
	}
	return movie, nil
}

func (s *movieService) List(ctx context.Context, filter repository.MovieFilter) ([]domain.Movie, error) {
	return s.movies.List(ctx, filter)
}

func (s *movieService) Update(ctx context.Context, id int64, update MovieUpdate) (*domain.Movie, error) {
	movie, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		movie.Title = *update.Title
	}
	if update.Overview != nil {
		movie.Overview = *update.Overview
	}
	if update.Cast != nil {
		movie.Cast = *update.Cast
	}
	if update.Runtime != nil {
		if *update.Runtime <= 0 {
			return nil, httperr.BadRequest("runtime must be positive")
		}
		movie.Runtime = *update.Runtime
	}
	if update.ReleaseDate != nil {
		movie.ReleaseDate = *update.ReleaseDate
	}

	if err := s.movies.Update(ctx, movie); err != nil {
		return nil, err
	}
	if update.GenreIDs != nil {
		if err := s.movies.SetGenres(ctx, movie.ID, update.GenreIDs); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

func (s *movieService) Delete(ctx context.Context, id int64) error {
	if err := s.movies.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return httperr.NotFound("Movie not found")
		}
		return err
	}
	return nil
}

func (s *movieService) UploadPosterImage(ctx context.Context, id int64, filename string, r io.Reader) (*domain.Movie, error) {
	movie, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := saveImage(ctx, s.media, storage.PosterImageDir, filename, r, movie.PosterImageURL)
	if err != nil {
		return nil, err
	}
	movie.PosterImageURL = url
	if err := s.movies.Update(ctx, movie); err != nil {
		return nil, err
	}
	return movie, nil
}
