package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"movie-review/internal/httperr"
	"movie-review/internal/repository"
	"movie-review/internal/service"
)

const releaseDateLayout = "2006-01-02"

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, httperr.BadRequest("invalid id")
	}
	return id, nil
}

type createMovieRequest struct {
	Title       string  `json:"title" binding:"required"`
	Overview    string  `json:"overview" binding:"required"`
	Cast        string  `json:"cast" binding:"required"`
	GenreIDs    []int64 `json:"genre_ids" binding:"required"`
	Runtime     int     `json:"runtime" binding:"required"`
	ReleaseDate string  `json:"release_date" binding:"required"`
}

func (h *Handler) createMovie(c *gin.Context) {
	var req createMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, httperr.BadRequest(err.Error()))
		return
	}
	releaseDate, err := time.Parse(releaseDateLayout, req.ReleaseDate)
	if err != nil {
		abort(c, httperr.BadRequest("release_date must be YYYY-MM-DD"))
		return
	}

	movie, err := h.movies.Create(c.Request.Context(), service.MovieCreate{
		Title:       req.Title,
		Overview:    req.Overview,
		Cast:        req.Cast,
		Runtime:     req.Runtime,
		ReleaseDate: releaseDate,
		GenreIDs:    req.GenreIDs,
	})
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, movieToResponse(movie))
}

func (h *Handler) listMovies(c *gin.Context) {
	filter := repository.MovieFilter{Title: c.Query("title")}
	if raw := c.Query("genre_ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				abort(c, httperr.BadRequest("genre_ids must be integers"))
				return
			}
			filter.GenreIDs = append(filter.GenreIDs, id)
		}
	}

	movies, err := h.movies.List(c.Request.Context(), filter)
	if err != nil {
		abort(c, err)
		return
	}

	resp := make([]MovieResponse, len(movies))
	for i := range movies {
		resp[i] = movieToResponse(&movies[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getMovie(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		abort(c, err)
		return
	}

	movie, err := h.movies.Get(c.Request.Context(), id)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, movieToResponse(movie))
}

type updateMovieRequest struct {
	Title       *string `json:"title"`
	Overview    *string `json:"overview"`
	Cast        *string `json:"cast"`
	GenreIDs    []int64 `json:"genre_ids"`
	Runtime     *int    `json:"runtime"`
	ReleaseDate *string `json:"release_date"`
}

func (h *Handler) updateMovie(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		abort(c, err)
		return
	}

	var req updateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, httperr.BadRequest(err.Error()))
		return
	}

	update := service.MovieUpdate{
		Title:    req.Title,
		Overview: req.Overview,
		Cast:     req.Cast,
		Runtime:  req.Runtime,
		GenreIDs: req.GenreIDs,
	}
	if req.ReleaseDate != nil {
		releaseDate, err := time.Parse(releaseDateLayout, *req.ReleaseDate)
		if err != nil {
			abort(c, httperr.BadRequest("release_date must be YYYY-MM-DD"))
			return
		}
		update.ReleaseDate = &releaseDate
	}

	movie, err := h.movies.Update(c.Request.Context(), id, update)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, movieToResponse(movie))
}

func (h *Handler) deleteMovie(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		abort(c, err)
		return
	}

	if err := h.movies.Delete(c.Request.Context(), id); err != nil {
		abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) uploadPosterImage(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		abort(c, err)
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

	movie, err := h.movies.UploadPosterImage(c.Request.Context(), id, fileHeader.Filename, file)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, movieToResponse(movie))
}

func (h *Handler) getMovieReviews(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		abort(c, err)
		return
	}

	reviews, err := h.reviews.ListByMovie(c.Request.Context(), id)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, reviewsToResponse(reviews))
}
