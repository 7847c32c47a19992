package service

import (
	"context"
	"errors"
	"io"
	"unicode/utf8"

	"movie-review/internal/domain"
	"movie-review/internal/httperr"
	"movie-review/internal/repository"
	"movie-review/internal/storage"
)

const (
	maxReviewTitleLen   = 50
	maxReviewContentLen = 255
)

// ReviewImage is an optional uploaded image accompanying a review
// create or update.
type ReviewImage struct {
	Filename string
	Reader   io.Reader
}

// ReviewUpdate carries a partial review update.
type ReviewUpdate struct {
	Title   *string
	Content *string
	Image   *ReviewImage
}

// ReviewService coordinates review operations, including the
// owner-only mutation rules.
type ReviewService interface {
	Create(ctx context.Context, userID, movieID int64, title, content string, image *ReviewImage) (*domain.Review, error)
	Get(ctx context.Context, id int64) (*domain.Review, error)
	Update(ctx context.Context, id, callerID int64, update ReviewUpdate) (*domain.Review, error)
	Delete(ctx context.Context, id, callerID int64) error
	ListByMovie(ctx context.Context, movieID int64) ([]domain.Review, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Review, error)
}

type reviewService struct {
	reviews repository.ReviewRepository
	media   storage.Service
}

func NewReviewService(reviews repository.ReviewRepository, media storage.Service) ReviewService {
	return &reviewService{reviews: reviews, media: media}
}

func (s *reviewService) Create(ctx context.Context, userID, movieID int64, title, content string, image *ReviewImage) (*domain.Review, error) {
	if title == "" {
		return nil, httperr.BadRequest("title is required")
	}
	if content == "" {
		return nil, httperr.BadRequest("content is required")
	}
	if err := checkReviewLengths(title, content); err != nil {
		return nil, err
	}

	review := &domain.Review{
		UserID:  userID,
		MovieID: movieID,
		Title:   title,
		Content: content,
	}
	if image != nil {
		url, err := saveImage(ctx, s.media, storage.ReviewImageDir, image.Filename, image.Reader, "")
		if err != nil {
			return nil, err
		}
		review.ReviewImageURL = url
	}

	if _, err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, httperr.BadRequest("review for this movie already exists")
		}
		return nil, err
	}
	return review, nil
}

func checkReviewLengths(title, content string) error {
	if utf8.RuneCountInString(title) > maxReviewTitleLen {
		return httperr.BadRequest("title must be at most 50 characters")
	}
	if utf8.RuneCountInString(content) > maxReviewContentLen {
		return httperr.BadRequest("content must be at most 255 characters")
	}
	return nil
}

func (s *reviewService) Get(ctx context.Context, id int64) (*domain.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, httperr.NotFound("Review does not exist")
		}
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Update(ctx context.Context, id, callerID int64, update ReviewUpdate) (*domain.Review, error) {
	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.UserID != callerID {
		return nil, httperr.Forbidden("Only the review owner can update reviews")
	}

	if update.Title != nil {
		review.Title = *update.Title
	}
	if update.Content != nil {
		review.Content = *update.Content
	}
	if err := checkReviewLengths(review.Title, review.Content); err != nil {
		return nil, err
	}
	if update.Image != nil {
		url, err := saveImage(ctx, s.media, storage.ReviewImageDir, update.Image.Filename, update.Image.Reader, review.ReviewImageURL)
		if err != nil {
			return nil, err
		}
		review.ReviewImageURL = url
	}

	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, id, callerID int64) error {
	review, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if review.UserID != callerID {
		return httperr.Forbidden("Only the review owner can delete review.")
	}
	return s.reviews.Delete(ctx, id)
}

func (s *reviewService) ListByMovie(ctx context.Context, movieID int64) ([]domain.Review, error) {
	return s.reviews.ListByMovie(ctx, movieID)
}

func (s *reviewService) ListByUser(ctx context.Context, userID int64) ([]domain.Review, error) {
	return s.reviews.ListByUser(ctx, userID)
}
