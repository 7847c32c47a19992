package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"movie-review/internal/repository"
)

func TestReviewLikeRepository_GetOrCreate(t *testing.T) {
	t.Parallel()

	repos := openTestRepos(t)
	ctx := context.Background()

	alice := repos.seedUser(t, "alice")
	bob := repos.seedUser(t, "bob")
	movie := repos.seedMovie(t, "Heat")
	review := repos.seedReview(t, alice.ID, movie.ID)

	_, err := repos.likes.Get(ctx, bob.ID, review.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	like, err := repos.likes.GetOrCreate(ctx, bob.ID, review.ID)
	require.NoError(t, err)
	require.Positive(t, like.ID)
	require.True(t, like.IsLiked)

	again, err := repos.likes.GetOrCreate(ctx, bob.ID, review.ID)
	require.NoError(t, err)
	require.Equal(t, like.ID, again.ID)
}

func TestReviewLikeRepository_SetLikedAndCount(t *testing.T) {
	t.Parallel()

	repos := openTestRepos(t)
	ctx := context.Background()

	alice := repos.seedUser(t, "alice")
	bob := repos.seedUser(t, "bob")
	movie := repos.seedMovie(t, "Heat")
	review := repos.seedReview(t, alice.ID, movie.ID)

	aliceLike, err := repos.likes.GetOrCreate(ctx, alice.ID, review.ID)
	require.NoError(t, err)
	bobLike, err := repos.likes.GetOrCreate(ctx, bob.ID, review.ID)
	require.NoError(t, err)

	count, err := repos.likes.CountByReview(ctx, review.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	require.NoError(t, repos.likes.SetLiked(ctx, bobLike.ID, false))
	count, err = repos.likes.CountByReview(ctx, review.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	got, err := repos.likes.Get(ctx, bob.ID, review.ID)
	require.NoError(t, err)
	require.False(t, got.IsLiked)

	require.NoError(t, repos.likes.SetLiked(ctx, aliceLike.ID, false))
	count, err = repos.likes.CountByReview(ctx, review.ID)
	require.NoError(t, err)
	require.Zero(t, count)
}
