package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"movie-review/internal/auth"
	"movie-review/internal/domain"
	"movie-review/internal/service"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth       *auth.Service
	users      service.UserService
	movies     service.MovieService
	reviews    service.ReviewService
	likes      service.LikeService
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewHandler(
	authSvc *auth.Service,
	users service.UserService,
	movies service.MovieService,
	reviews service.ReviewService,
	likes service.LikeService,
	accessTTL, refreshTTL time.Duration,
) *Handler {
	return &Handler{
		auth:       authSvc,
		users:      users,
		movies:     movies,
		reviews:    reviews,
		likes:      likes,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())
	router.Use(AuthMiddleware(h.auth))

	users := router.Group("/users")
	{
		users.POST("", h.createUser)
		users.GET("", h.listUsers)
		users.POST("/login", h.login)
		users.GET("/search", h.searchUsers)
		users.GET("/me", h.getMe)
		users.PATCH("/me", h.updateMe)
		users.DELETE("/me", h.deleteMe)
		users.POST("/me/profile_image", h.uploadProfileImage)
		users.GET("/me/reviews", h.getMyReviews)
	}

	movies := router.Group("/movies")
	{
		movies.POST("", h.createMovie)
		movies.GET("", h.listMovies)
		movies.GET("/:id", h.getMovie)
		movies.PATCH("/:id", h.updateMovie)
		movies.DELETE("/:id", h.deleteMovie)
		movies.POST("/:id/poster_image", h.uploadPosterImage)
		movies.GET("/:id/reviews", h.getMovieReviews)
	}

	reviews := router.Group("/reviews")
	{
		reviews.POST("", h.createReview)
		reviews.GET("/:id", h.getReview)
		reviews.PATCH("/:id", h.updateReview)
		reviews.DELETE("/:id", h.deleteReview)
		reviews.GET("/:id/like_count", h.getReviewLikeCount)
		reviews.GET("/:id/is_liked", h.getReviewIsLiked)
	}

	likes := router.Group("/likes")
	{
		likes.POST("/reviews/:id/like", h.likeReview)
		likes.POST("/reviews/:id/unlike", h.unlikeReview)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// abort records err for the middleware to render and stops the chain.
func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

type UserResponse struct {
	ID              int64         `json:"id"`
	Username        string        `json:"username"`
	Age             int           `json:"age"`
	Gender          domain.Gender `json:"gender"`
	ProfileImageURL string        `json:"profile_image_url,omitempty"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:              user.ID,
		Username:        user.Username,
		Age:             user.Age,
		Gender:          user.Gender,
		ProfileImageURL: user.ProfileImageURL,
	}
}

type MovieResponse struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title"`
	Overview       string   `json:"overview"`
	Cast           string   `json:"cast"`
	Genres         []int64  `json:"genres"`
	GenresStr      []string `json:"genres_str"`
	Runtime        int      `json:"runtime"`
	ReleaseDate    string   `json:"release_date"`
	PosterImageURL string   `json:"poster_image_url,omitempty"`
}

func movieToResponse(movie *domain.Movie) MovieResponse {
	resp := MovieResponse{
		ID:             movie.ID,
		Title:          movie.Title,
		Overview:       movie.Overview,
		Cast:           movie.Cast,
		Genres:         make([]int64, 0, len(movie.Genres)),
		GenresStr:      make([]string, 0, len(movie.Genres)),
		Runtime:        movie.Runtime,
		ReleaseDate:    movie.ReleaseDate.Format("2006-01-02"),
		PosterImageURL: movie.PosterImageURL,
	}
	for _, genre := range movie.Genres {
		resp.Genres = append(resp.Genres, genre.ID)
		resp.GenresStr = append(resp.GenresStr, genre.Name)
	}
	return resp
}

type ReviewResponse struct {
	ID             int64  `json:"id"`
	UserID         int64  `json:"user_id"`
	MovieID        int64  `json:"movie_id"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	ReviewImageURL string `json:"review_image_url,omitempty"`
}

func reviewToResponse(review *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:             review.ID,
		UserID:         review.UserID,
		MovieID:        review.MovieID,
		Title:          review.Title,
		Content:        review.Content,
		ReviewImageURL: review.ReviewImageURL,
	}
}

func reviewsToResponse(reviews []domain.Review) []ReviewResponse {
	resp := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		resp[i] = reviewToResponse(&reviews[i])
	}
	return resp
}
