package service

import (
	"context"
	"errors"

	"movie-review/internal/domain"
	"movie-review/internal/repository"
)

// LikeService tracks per-user review like state.
type LikeService interface {
	Like(ctx context.Context, userID, reviewID int64) (*domain.ReviewLike, error)
	Unlike(ctx context.Context, userID, reviewID int64) (*domain.ReviewLike, error)
	IsLiked(ctx context.Context, userID, reviewID int64) (bool, error)
	Count(ctx context.Context, reviewID int64) (int64, error)
}

type likeService struct {
	likes repository.ReviewLikeRepository
}

func NewLikeService(likes repository.ReviewLikeRepository) LikeService {
	return &likeService{likes: likes}
}

func (s *likeService) Like(ctx context.Context, userID, reviewID int64) (*domain.ReviewLike, error) {
	like, err := s.likes.GetOrCreate(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}
	if !like.IsLiked {
		if err := s.likes.SetLiked(ctx, like.ID, true); err != nil {
			return nil, err
		}
		like.IsLiked = true
	}
	return like, nil
}

// Unlike flips an existing like off. When the user never liked the
// review, it answers with an unsaved zero-id record instead of
// creating a row.
func (s *likeService) Unlike(ctx context.Context, userID, reviewID int64) (*domain.ReviewLike, error) {
	like, err := s.likes.Get(ctx, userID, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &domain.ReviewLike{UserID: userID, ReviewID: reviewID, IsLiked: false}, nil
		}
		return nil, err
	}
	if like.IsLiked {
		if err := s.likes.SetLiked(ctx, like.ID, false); err != nil {
			return nil, err
		}
		like.IsLiked = false
	}
	return like, nil
}

func (s *likeService) IsLiked(ctx context.Context, userID, reviewID int64) (bool, error) {
	like, err := s.likes.Get(ctx, userID, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return like.IsLiked, nil
}

func (s *likeService) Count(ctx context.Context, reviewID int64) (int64, error) {
	return s.likes.CountByReview(ctx, reviewID)
}
