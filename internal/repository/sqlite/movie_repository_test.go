package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"movie-review/internal/domain"
	"movie-review/internal/repository"
)

func TestMovieRepository_CreateAndGet(t *testing.T) {
	t.Parallel()

	repos := openTestRepos(t)
	ctx := context.Background()

	action := repos.seedGenre(t, 28, "Action")
	comedy := repos.seedGenre(t, 35, "Comedy")
	movie := repos.seedMovie(t, "Knives Out", action.ID, comedy.ID)

	got, err := repos.movies.GetByID(ctx, movie.ID)
	require.NoError(t, err)
	require.Equal(t, "Knives Out", got.Title)
	require.Equal(t, 120, got.Runtime)
	require.Len(t, got.Genres, 2)
	require.Equal(t, "Action", got.Genres[0].Name)
	require.Equal(t, "Comedy", got.Genres[1].Name)

	_, err = repos.movies.GetByID(ctx, movie.ID+100)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestMovieRepository_ListFilters(t *testing.T) {
	t.Parallel()

	repos := openTestRepos(t)
	ctx := context.Background()

	action := repos.seedGenre(t, 28, "Action")
	comedy := repos.seedGenre(t, 35, "Comedy")
	knives := repos.seedMovie(t, "Knives Out", comedy.ID)
	heat := repos.seedMovie(t, "Heat", action.ID)
	repos.seedMovie(t, "Glass Onion", comedy.ID)

	all, err := repos.movies.List(ctx, repository.MovieFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	byTitle, err := repos.movies.List(ctx, repository.MovieFilter{Title: "knives"})
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	require.Equal(t, knives.ID, byTitle[0].ID)

	byGenre, err := repos.movies.List(ctx, repository.MovieFilter{GenreIDs: []int64{comedy.ID}})
	require.NoError(t, err)
	require.Len(t, byGenre, 2)

	both, err := repos.movies.List(ctx, repository.MovieFilter{Title: "heat", GenreIDs: []int64{action.ID}})
	require.NoError(t, err)
	require.Len(t, both, 1)
	require.Equal(t, heat.ID, both[0].ID)

	none, err := repos.movies.List(ctx, repository.MovieFilter{Title: "parasite"})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestMovieRepository_UpdateAndSetGenres(t *testing.T) {
	t.Parallel()

	repos := openTestRepos(t)
	ctx := context.Background()

	action := repos.seedGenre(t, 28, "Action")
	comedy := repos.seedGenre(t, 35, "Comedy")
	movie := repos.seedMovie(t, "Knives Out", action.ID)

	movie.Title = "Knives Out (2019)"
	movie.Runtime = 130
	movie.ReleaseDate = time.Date(2019, 11, 27, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repos.movies.Update(ctx, movie))
	require.NoError(t, repos.movies.SetGenres(ctx, movie.ID, []int64{comedy.ID}))

	got, err := repos.movies.GetByID(ctx, movie.ID)
	require.NoError(t, err)
	require.Equal(t, "Knives Out (2019)", got.Title)
	require.Equal(t, 130, got.Runtime)
	require.Len(t, got.Genres, 1)
	require.Equal(t, "Comedy", got.Genres[0].Name)
}

func TestMovieRepository_Delete(t *testing.T) {
	t.Parallel()

	repos := openTestRepos(t)
	ctx := context.Background()

	genre := repos.seedGenre(t, 28, "Action")
	movie := repos.seedMovie(t, "Heat", genre.ID)

	require.NoError(t, repos.movies.Delete(ctx, movie.ID))
	_, err := repos.movies.GetByID(ctx, movie.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.ErrorIs(t, repos.movies.Delete(ctx, movie.ID), repository.ErrNotFound)
}

func TestMovieRepository_ExistsByExternalID(t *testing.T) {
	t.Parallel()

	repos := openTestRepos(t)
	ctx := context.Background()

	movie := &domain.Movie{
		ExternalID:  949,
		Title:       "Heat",
		Overview:    "a heist crew against a relentless detective",
		Cast:        "Al Pacino, Robert De Niro",
		Runtime:     170,
		ReleaseDate: time.Date(1995, 12, 15, 0, 0, 0, 0, time.UTC),
	}
	_, err := repos.movies.Create(ctx, movie, nil)
	require.NoError(t, err)

	exists, err := repos.movies.ExistsByExternalID(ctx, 949)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repos.movies.ExistsByExternalID(ctx, 550)
	require.NoError(t, err)
	require.False(t, exists)
}
