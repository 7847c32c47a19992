package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"movie-review/internal/domain"
	"movie-review/internal/httperr"
)

type ReviewLikeResponse struct {
	ID       int64 `json:"id,omitempty"`
	UserID   int64 `json:"user_id"`
	ReviewID int64 `json:"review_id"`
	IsLiked  bool  `json:"is_liked"`
}

func likeToResponse(like *domain.ReviewLike) ReviewLikeResponse {
	return ReviewLikeResponse{
		ID:       like.ID,
		UserID:   like.UserID,
		ReviewID: like.ReviewID,
		IsLiked:  like.IsLiked,
	}
}

func (h *Handler) likeReview(c *gin.Context) {
	user, ok := identityFromContext(c)
	if !ok {
		abort(c, httperr.Unauthorized("invalid token"))
		return
	}
	id, err := pathID(c)
	if err != nil {
		abort(c, err)
		return
	}

	like, err := h.likes.Like(c.Request.Context(), user.ID, id)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, likeToResponse(like))
}

func (h *Handler) unlikeReview(c *gin.Context) {
	user, ok := identityFromContext(c)
	if !ok {
		abort(c, httperr.Unauthorized("invalid token"))
		return
	}
	id, err := pathID(c)
	if err != nil {
		abort(c, err)
		return
	}

	like, err := h.likes.Unlike(c.Request.Context(), user.ID, id)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, likeToResponse(like))
}

func (h *Handler) getReviewLikeCount(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		abort(c, err)
		return
	}

	count, err := h.likes.Count(c.Request.Context(), id)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"review_id": id, "like_count": count})
}

func (h *Handler) getReviewIsLiked(c *gin.Context) {
	user, ok := identityFromContext(c)
	if !ok {
		abort(c, httperr.Unauthorized("invalid token"))
		return
	}
	id, err := pathID(c)
	if err != nil {
		abort(c, err)
		return
	}

	liked, err := h.likes.IsLiked(c.Request.Context(), user.ID, id)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"review_id": id, "is_liked": liked})
}
