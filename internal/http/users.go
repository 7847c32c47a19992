package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"movie-review/internal/domain"
	"movie-review/internal/httperr"
	"movie-review/internal/repository"
	"movie-review/internal/service"
)

type createUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Age      int    `json:"age" binding:"required"`
	Gender   string `json:"gender" binding:"required"`
}

func (h *Handler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, httperr.BadRequest(err.Error()))
		return
	}

	id, err := h.users.Create(c.Request.Context(), req.Username, req.Password, req.Age, domain.Gender(req.Gender))
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, id)
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(&users[i])
	}
	c.JSON(http.StatusOK, resp)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, httperr.BadRequest(err.Error()))
		return
	}

	access, refresh, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		abort(c, err)
		return
	}

	c.SetCookie(accessTokenCookie, access, int(h.accessTTL.Seconds()), "/", "", false, true)
	c.SetCookie(refreshTokenCookie, refresh, int(h.refreshTTL.Seconds()), "/", "", false, true)
	c.Status(http.StatusNoContent)
}

func (h *Handler) searchUsers(c *gin.Context) {
	var filter repository.UserFilter
	for key, values := range c.Request.URL.Query() {
		if len(values) == 0 {
			continue
		}
		value := values[0]
		switch key {
		case "username":
			filter.Username = &value
		case "age":
			age, err := strconv.Atoi(value)
			if err != nil || age <= 0 {
				abort(c, httperr.BadRequest("age must be a positive integer"))
				return
			}
			filter.Age = &age
		case "gender":
			gender := domain.Gender(value)
			if !gender.Valid() {
				abort(c, httperr.BadRequest("gender must be male or female"))
				return
			}
			filter.Gender = &gender
		default:
			abort(c, httperr.BadRequest("unknown query parameter: "+key))
			return
		}
	}

	users, err := h.users.Search(c.Request.Context(), filter)
	if err != nil {
		abort(c, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(&users[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getMe(c *gin.Context) {
	user, ok := identityFromContext(c)
	if !ok {
		abort(c, httperr.Unauthorized("invalid token"))
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

type updateUserRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Age      *int    `json:"age"`
}

func (h *Handler) updateMe(c *gin.Context) {
	user, ok := identityFromContext(c)
	if !ok {
		abort(c, httperr.Unauthorized("invalid token"))
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, httperr.BadRequest(err.Error()))
		return
	}

	update := service.UserUpdate{
		Username: req.Username,
		Password: req.Password,
		Age:      req.Age,
	}
	if err := h.users.Update(c.Request.Context(), user, update); err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

func (h *Handler) deleteMe(c *gin.Context) {
	user, ok := identityFromContext(c)
	if !ok {
		abort(c, httperr.Unauthorized("invalid token"))
		return
	}

	if err := h.users.Delete(c.Request.Context(), user.ID); err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Successfully Deleted."})
}

func (h *Handler) uploadProfileImage(c *gin.Context) {
	user, ok := identityFromContext(c)
	if !ok {
		abort(c, httperr.Unauthorized("invalid token"))
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		abort(c, httperr.BadRequest("image file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		abort(c, err)
		return
	}
	defer file.Close()

	if err := h.users.UploadProfileImage(c.Request.Context(), user, fileHeader.Filename, file); err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

func (h *Handler) getMyReviews(c *gin.Context) {
	user, ok := identityFromContext(c)
	if !ok {
		abort(c, httperr.Unauthorized("invalid token"))
		return
	}

	reviews, err := h.reviews.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, reviewsToResponse(reviews))
}
