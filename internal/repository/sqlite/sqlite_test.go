package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"movie-review/internal/domain"
	"movie-review/internal/repository"
)

type testRepos struct {
	users   repository.UserRepository
	genres  repository.GenreRepository
	movies  repository.MovieRepository
	reviews repository.ReviewRepository
	likes   repository.ReviewLikeRepository
}

func openTestRepos(t *testing.T) *testRepos {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repos := &testRepos{
		users:   NewUserRepository(db),
		genres:  NewGenreRepository(db),
		movies:  NewMovieRepository(db),
		reviews: NewReviewRepository(db),
		likes:   NewReviewLikeRepository(db),
	}
	ctx := context.Background()
	for _, init := range []interface{ Init(context.Context) error }{
		repos.users, repos.genres, repos.movies, repos.reviews, repos.likes,
	} {
		require.NoError(t, init.Init(ctx))
	}
	return repos
}

func (r *testRepos) seedUser(t *testing.T, username string) *domain.User {
	t.Helper()
	user := &domain.User{
		Username:       username,
		HashedPassword: "hashed",
		Age:            30,
		Gender:         domain.GenderFemale,
	}
	_, err := r.users.Create(context.Background(), user)
	require.NoError(t, err)
	return user
}

func (r *testRepos) seedGenre(t *testing.T, externalID int64, name string) *domain.Genre {
	t.Helper()
	genre := &domain.Genre{ExternalID: externalID, Name: name}
	_, err := r.genres.Create(context.Background(), genre)
	require.NoError(t, err)
	return genre
}

func (r *testRepos) seedMovie(t *testing.T, title string, genreIDs ...int64) *domain.Movie {
	t.Helper()
	movie := &domain.Movie{
		Title:       title,
		Overview:    "overview of " + title,
		Cast:        "Some Actor, Other Actor",
		Runtime:     120,
		ReleaseDate: time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	_, err := r.movies.Create(context.Background(), movie, genreIDs)
	require.NoError(t, err)
	return movie
}

func (r *testRepos) seedReview(t *testing.T, userID, movieID int64) *domain.Review {
	t.Helper()
	review := &domain.Review{
		UserID:  userID,
		MovieID: movieID,
		Title:   "good",
		Content: "liked it",
	}
	_, err := r.reviews.Create(context.Background(), review)
	require.NoError(t, err)
	return review
}
