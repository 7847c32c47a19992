package http

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"movie-review/internal/httperr"
	"movie-review/internal/service"
)

// reviewImageFromForm opens an optional multipart image field. The
// caller must close the returned file when non-nil.
func reviewImageFromForm(c *gin.Context, field string) (*service.ReviewImage, multipart.File, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		// absent file is fine
		return nil, nil, nil
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, nil, err
	}
	return &service.ReviewImage{Filename: fileHeader.Filename, Reader: file}, file, nil
}

func (h *Handler) createReview(c *gin.Context) {
	user, ok := identityFromContext(c)
	if !ok {
		abort(c, httperr.Unauthorized("invalid token"))
		return
	}

	movieID, err := strconv.ParseInt(c.PostForm("movie_id"), 10, 64)
	if err != nil || movieID <= 0 {
		abort(c, httperr.BadRequest("movie_id must be a positive integer"))
		return
	}
	title := c.PostForm("title")
	content := c.PostForm("content")

	image, file, err := reviewImageFromForm(c, "review_image")
	if err != nil {
		abort(c, err)
		return
	}
	if file != nil {
		defer file.Close()
	}

	review, err := h.reviews.Create(c.Request.Context(), user.ID, movieID, title, content, image)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, reviewToResponse(review))
}

func (h *Handler) getReview(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		abort(c, err)
		return
	}

	review, err := h.reviews.Get(c.Request.Context(), id)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, reviewToResponse(review))
}

func (h *Handler) updateReview(c *gin.Context) {
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

	var update service.ReviewUpdate
	if title, ok := c.GetPostForm("update_title"); ok {
		update.Title = &title
	}
	if content, ok := c.GetPostForm("update_content"); ok {
		update.Content = &content
	}
	image, file, err := reviewImageFromForm(c, "update_image")
	if err != nil {
		abort(c, err)
		return
	}
	if file != nil {
		defer file.Close()
	}
	update.Image = image

	review, err := h.reviews.Update(c.Request.Context(), id, user.ID, update)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, reviewToResponse(review))
}

func (h *Handler) deleteReview(c *gin.Context) {
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

	if err := h.reviews.Delete(c.Request.Context(), id, user.ID); err != nil {
		abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
