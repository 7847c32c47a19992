package domain

import "time"

// Review is a user's review of a movie. A user may review a movie at
// most once.
type Review struct {
	ID             int64
	UserID         int64
	MovieID        int64
	Title          string
	Content        string
	ReviewImageURL string
	CreatedAt      time.Time
}

// ReviewLike tracks whether a user currently likes a review. Unliking
// flips IsLiked rather than deleting the row.
type ReviewLike struct {
	ID        int64
	UserID    int64
	ReviewID  int64
	IsLiked   bool
	CreatedAt time.Time
}
