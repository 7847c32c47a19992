package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"movie-review/internal/auth"
	"movie-review/internal/domain"
	"movie-review/internal/repository"
	"movie-review/internal/repository/sqlite"
	"movie-review/internal/service"
	"movie-review/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	srv    *httptest.Server
	genres repository.GenreRepository
}

func (e *testEnv) seedGenre(t *testing.T, externalID int64, name string) int64 {
	t.Helper()
	id, err := e.genres.Create(context.Background(), &domain.Genre{ExternalID: externalID, Name: name})
	require.NoError(t, err)
	return id
}

func newTestServer(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	db, err := sqlite.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	userRepo := sqlite.NewUserRepository(db)
	genreRepo := sqlite.NewGenreRepository(db)
	movieRepo := sqlite.NewMovieRepository(db)
	reviewRepo := sqlite.NewReviewRepository(db)
	likeRepo := sqlite.NewReviewLikeRepository(db)
	for _, repo := range []interface{ Init(context.Context) error }{
		userRepo, genreRepo, movieRepo, reviewRepo, likeRepo,
	} {
		require.NoError(t, repo.Init(ctx))
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	media := storage.NewLocalService(filepath.Join(dir, "media"))
	tokens := auth.NewTokenService([]byte("test-secret"), 30*time.Minute, time.Hour)
	authSvc := auth.NewService(userRepo, tokens, logger)

	handler := NewHandler(
		authSvc,
		service.NewUserService(userRepo, authSvc, media),
		service.NewMovieService(movieRepo, media),
		service.NewReviewService(reviewRepo, media),
		service.NewLikeService(likeRepo),
		30*time.Minute, time.Hour,
	)

	router := gin.New()
	handler.RegisterRoutes(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, genres: genreRepo}
}

func doJSON(t *testing.T, env *testEnv, method, path string, body any, cookies []*http.Cookie) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, env.srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := env.srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func doForm(t *testing.T, env *testEnv, method, path string, form url.Values, cookies []*http.Cookie) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, env.srv.URL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := env.srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func doUpload(t *testing.T, env *testEnv, path, field, filename, content string, cookies []*http.Cookie) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, env.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := env.srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func requireDetail(t *testing.T, resp *http.Response, status int, detail string) {
	t.Helper()
	require.Equal(t, status, resp.StatusCode)
	var body map[string]string
	decodeBody(t, resp, &body)
	require.Equal(t, detail, body["detail"])
}

func createUser(t *testing.T, env *testEnv, username string) int64 {
	t.Helper()
	resp := doJSON(t, env, http.MethodPost, "/users", gin.H{
		"username": username,
		"password": "pass1234",
		"age":      27,
		"gender":   "female",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var id int64
	decodeBody(t, resp, &id)
	require.Positive(t, id)
	return id
}

func login(t *testing.T, env *testEnv, username string) []*http.Cookie {
	t.Helper()
	resp := doJSON(t, env, http.MethodPost, "/users/login", gin.H{
		"username": username,
		"password": "pass1234",
	}, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	cookies := resp.Cookies()
	names := make(map[string]bool, len(cookies))
	for _, cookie := range cookies {
		names[cookie.Name] = true
		require.True(t, cookie.HttpOnly, "cookie %s should be http only", cookie.Name)
	}
	require.True(t, names[accessTokenCookie])
	require.True(t, names[refreshTokenCookie])
	return cookies
}

func createMovie(t *testing.T, env *testEnv, title string) int64 {
	t.Helper()
	genreID := env.seedGenre(t, 9648, "Mystery")
	resp := doJSON(t, env, http.MethodPost, "/movies", gin.H{
		"title":        title,
		"overview":     "a movie about testing",
		"cast":         "Ana de Armas, Oscar Isaac",
		"genre_ids":    []int64{genreID},
		"runtime":      117,
		"release_date": "2019-11-27",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var movie MovieResponse
	decodeBody(t, resp, &movie)
	require.Positive(t, movie.ID)
	return movie.ID
}

func createReview(t *testing.T, env *testEnv, movieID int64, cookies []*http.Cookie) int64 {
	t.Helper()
	resp := doForm(t, env, http.MethodPost, "/reviews", url.Values{
		"movie_id": {fmt.Sprint(movieID)},
		"title":    {"a masterpiece"},
		"content":  {"watched it twice"},
	}, cookies)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var review ReviewResponse
	decodeBody(t, resp, &review)
	require.Positive(t, review.ID)
	return review.ID
}

func TestSignupAndLogin(t *testing.T) {
	t.Parallel()
	env := newTestServer(t)

	createUser(t, env, "alice")

	resp := doJSON(t, env, http.MethodPost, "/users/login", gin.H{
		"username": "alice", "password": "wrong",
	}, nil)
	requireDetail(t, resp, http.StatusUnauthorized, "password incorrect.")

	resp = doJSON(t, env, http.MethodPost, "/users/login", gin.H{
		"username": "nobody", "password": "pass1234",
	}, nil)
	requireDetail(t, resp, http.StatusUnauthorized, "username: nobody - not found.")

	cookies := login(t, env, "alice")

	resp = doJSON(t, env, http.MethodGet, "/users/me", nil, cookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me UserResponse
	decodeBody(t, resp, &me)
	require.Equal(t, "alice", me.Username)
	require.Equal(t, 27, me.Age)
}

func TestDuplicateUsername(t *testing.T) {
	t.Parallel()
	env := newTestServer(t)

	createUser(t, env, "alice")
	resp := doJSON(t, env, http.MethodPost, "/users", gin.H{
		"username": "alice",
		"password": "pass1234",
		"age":      30,
		"gender":   "male",
	}, nil)
	requireDetail(t, resp, http.StatusBadRequest, "username already exists")
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	t.Parallel()
	env := newTestServer(t)

	resp := doJSON(t, env, http.MethodGet, "/users/me", nil, nil)
	requireDetail(t, resp, http.StatusUnauthorized, "invalid token")

	resp = doJSON(t, env, http.MethodGet, "/users/me", nil, []*http.Cookie{
		{Name: accessTokenCookie, Value: "tampered.token.value"},
	})
	requireDetail(t, resp, http.StatusUnauthorized, "invalid token")
}

func TestRefreshTokenNotAcceptedAsAccess(t *testing.T) {
	t.Parallel()
	env := newTestServer(t)

	createUser(t, env, "alice")
	cookies := login(t, env, "alice")

	var refresh string
	for _, cookie := range cookies {
		if cookie.Name == refreshTokenCookie {
			refresh = cookie.Value
		}
	}
	require.NotEmpty(t, refresh)

	resp := doJSON(t, env, http.MethodGet, "/users/me", nil, []*http.Cookie{
		{Name: accessTokenCookie, Value: refresh},
	})
	requireDetail(t, resp, http.StatusUnauthorized, "invalid token")
}

func TestPublicRoutes(t *testing.T) {
	t.Parallel()
	env := newTestServer(t)

	resp := doJSON(t, env, http.MethodGet, "/movies", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var movies []MovieResponse
	decodeBody(t, resp, &movies)
	require.Empty(t, movies)

	resp = doJSON(t, env, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSearchUsers(t *testing.T) {
	t.Parallel()
	env := newTestServer(t)

	createUser(t, env, "alice")

	resp := doJSON(t, env, http.MethodGet, "/users/search?username=alice", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var users []UserResponse
	decodeBody(t, resp, &users)
	require.Len(t, users, 1)
	require.Equal(t, "alice", users[0].Username)

	resp = doJSON(t, env, http.MethodGet, "/users/search?username=nobody", nil, nil)
	requireDetail(t, resp, http.StatusNotFound, "Not Found")

	resp = doJSON(t, env, http.MethodGet, "/users/search?height=180", nil, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteMe(t *testing.T) {
	t.Parallel()
	env := newTestServer(t)

	createUser(t, env, "alice")
	cookies := login(t, env, "alice")

	resp := doJSON(t, env, http.MethodDelete, "/users/me", nil, cookies)
	requireDetail(t, resp, http.StatusOK, "Successfully Deleted.")

	// The still-valid token no longer names an account.
	resp = doJSON(t, env, http.MethodGet, "/users/me", nil, cookies)
	requireDetail(t, resp, http.StatusUnauthorized, "Invalid Access Token.")
}

func TestUpdateMe(t *testing.T) {
	t.Parallel()
	env := newTestServer(t)

	createUser(t, env, "alice")
	createUser(t, env, "bob")
	cookies := login(t, env, "alice")

	resp := doJSON(t, env, http.MethodPatch, "/users/me", gin.H{"age": 33}, cookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me UserResponse
	decodeBody(t, resp, &me)
	require.Equal(t, 33, me.Age)
	require.Equal(t, "alice", me.Username)

	resp = doJSON(t, env, http.MethodPatch, "/users/me", gin.H{"username": "bob"}, cookies)
	requireDetail(t, resp, http.StatusBadRequest, "username already exists")
}

func TestUploadProfileImage(t *testing.T) {
	t.Parallel()
	env := newTestServer(t)

	createUser(t, env, "alice")
	cookies := login(t, env, "alice")

	resp := doUpload(t, env, "/users/me/profile_image", "image", "avatar.png", "png bytes", cookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me UserResponse
	decodeBody(t, resp, &me)
	require.True(t, strings.HasPrefix(me.ProfileImageURL, "users/profile_images/"))

	resp = doUpload(t, env, "/users/me/profile_image", "image", "payload.exe", "not an image", cookies)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// missing file field
	resp = doForm(t, env, http.MethodPost, "/users/me/profile_image", url.Values{}, cookies)
	requireDetail(t, resp, http.StatusBadRequest, "image file is required")
}

func TestMovieLifecycle(t *testing.T) {
	t.Parallel()
	env := newTestServer(t)

	movieID := createMovie(t, env, "Knives Out")

	resp := doJSON(t, env, http.MethodGet, fmt.Sprintf("/movies/%d", movieID), nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var movie MovieResponse
	decodeBody(t, resp, &movie)
	require.Equal(t, "Knives Out", movie.Title)
	require.Equal(t, "2019-11-27", movie.ReleaseDate)
	require.Equal(t, []string{"Mystery"}, movie.GenresStr)

	newTitle := "Knives Out (2019)"
	resp = doJSON(t, env, http.MethodPatch, fmt.Sprintf("/movies/%d", movieID), gin.H{"title": newTitle}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &movie)
	require.Equal(t, newTitle, movie.Title)

	resp = doJSON(t, env, http.MethodGet, "/movies?title=knives", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var movies []MovieResponse
	decodeBody(t, resp, &movies)
	require.Len(t, movies, 1)

	resp = doJSON(t, env, http.MethodDelete, fmt.Sprintf("/movies/%d", movieID), nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, env, http.MethodGet, fmt.Sprintf("/movies/%d", movieID), nil, nil)
	requireDetail(t, resp, http.StatusNotFound, "Movie not found")
}

func TestReviewLifecycle(t *testing.T) {
	t.Parallel()
	env := newTestServer(t)

	movieID := createMovie(t, env, "Knives Out")
	createUser(t, env, "alice")
	createUser(t, env, "bob")
	aliceCookies := login(t, env, "alice")
	bobCookies := login(t, env, "bob")

	reviewID := createReview(t, env, movieID, aliceCookies)

	resp := doForm(t, env, http.MethodPost, "/reviews", url.Values{
		"movie_id": {fmt.Sprint(movieID)},
		"title":    {"again"},
		"content":  {"again"},
	}, aliceCookies)
	requireDetail(t, resp, http.StatusBadRequest, "review for this movie already exists")

	resp = doForm(t, env, http.MethodPatch, fmt.Sprintf("/reviews/%d", reviewID), url.Values{
		"update_title": {"hijacked"},
	}, bobCookies)
	requireDetail(t, resp, http.StatusForbidden, "Only the review owner can update reviews")

	resp = doJSON(t, env, http.MethodDelete, fmt.Sprintf("/reviews/%d", reviewID), nil, bobCookies)
	requireDetail(t, resp, http.StatusForbidden, "Only the review owner can delete review.")

	resp = doForm(t, env, http.MethodPatch, fmt.Sprintf("/reviews/%d", reviewID), url.Values{
		"update_title":   {"still a masterpiece"},
		"update_content": {"third watch"},
	}, aliceCookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var review ReviewResponse
	decodeBody(t, resp, &review)
	require.Equal(t, "still a masterpiece", review.Title)
	require.Equal(t, "third watch", review.Content)

	resp = doJSON(t, env, http.MethodGet, fmt.Sprintf("/movies/%d/reviews", movieID), nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reviews []ReviewResponse
	decodeBody(t, resp, &reviews)
	require.Len(t, reviews, 1)

	resp = doJSON(t, env, http.MethodGet, "/users/me/reviews", nil, aliceCookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &reviews)
	require.Len(t, reviews, 1)

	resp = doJSON(t, env, http.MethodDelete, fmt.Sprintf("/reviews/%d", reviewID), nil, aliceCookies)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, env, http.MethodGet, fmt.Sprintf("/reviews/%d", reviewID), nil, aliceCookies)
	requireDetail(t, resp, http.StatusNotFound, "Review does not exist")
}

func TestReviewLengthLimits(t *testing.T) {
	t.Parallel()
	env := newTestServer(t)

	movieID := createMovie(t, env, "Knives Out")
	createUser(t, env, "alice")
	cookies := login(t, env, "alice")

	longTitle := strings.Repeat("t", 51)
	longContent := strings.Repeat("c", 300)

	resp := doForm(t, env, http.MethodPost, "/reviews", url.Values{
		"movie_id": {fmt.Sprint(movieID)},
		"title":    {longTitle},
		"content":  {"short enough"},
	}, cookies)
	requireDetail(t, resp, http.StatusBadRequest, "title must be at most 50 characters")

	resp = doForm(t, env, http.MethodPost, "/reviews", url.Values{
		"movie_id": {fmt.Sprint(movieID)},
		"title":    {"short enough"},
		"content":  {longContent},
	}, cookies)
	requireDetail(t, resp, http.StatusBadRequest, "content must be at most 255 characters")

	// exactly at the limits is accepted
	resp = doForm(t, env, http.MethodPost, "/reviews", url.Values{
		"movie_id": {fmt.Sprint(movieID)},
		"title":    {strings.Repeat("t", 50)},
		"content":  {strings.Repeat("c", 255)},
	}, cookies)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var review ReviewResponse
	decodeBody(t, resp, &review)

	resp = doForm(t, env, http.MethodPatch, fmt.Sprintf("/reviews/%d", review.ID), url.Values{
		"update_title": {longTitle},
	}, cookies)
	requireDetail(t, resp, http.StatusBadRequest, "title must be at most 50 characters")

	resp = doForm(t, env, http.MethodPatch, fmt.Sprintf("/reviews/%d", review.ID), url.Values{
		"update_content": {longContent},
	}, cookies)
	requireDetail(t, resp, http.StatusBadRequest, "content must be at most 255 characters")
}

func TestLikeFlow(t *testing.T) {
	t.Parallel()
	env := newTestServer(t)

	movieID := createMovie(t, env, "Knives Out")
	createUser(t, env, "alice")
	createUser(t, env, "bob")
	aliceCookies := login(t, env, "alice")
	bobCookies := login(t, env, "bob")

	reviewID := createReview(t, env, movieID, aliceCookies)

	resp := doJSON(t, env, http.MethodPost, fmt.Sprintf("/likes/reviews/%d/like", reviewID), nil, bobCookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var like ReviewLikeResponse
	decodeBody(t, resp, &like)
	require.True(t, like.IsLiked)
	require.Equal(t, reviewID, like.ReviewID)

	// like_count is public
	resp = doJSON(t, env, http.MethodGet, fmt.Sprintf("/reviews/%d/like_count", reviewID), nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var count struct {
		ReviewID  int64 `json:"review_id"`
		LikeCount int   `json:"like_count"`
	}
	decodeBody(t, resp, &count)
	require.Equal(t, 1, count.LikeCount)

	resp = doJSON(t, env, http.MethodGet, fmt.Sprintf("/reviews/%d/is_liked", reviewID), nil, bobCookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var liked struct {
		ReviewID int64 `json:"review_id"`
		IsLiked  bool  `json:"is_liked"`
	}
	decodeBody(t, resp, &liked)
	require.True(t, liked.IsLiked)

	// Liking twice stays at one counted like per user.
	resp = doJSON(t, env, http.MethodPost, fmt.Sprintf("/likes/reviews/%d/like", reviewID), nil, bobCookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doJSON(t, env, http.MethodGet, fmt.Sprintf("/reviews/%d/like_count", reviewID), nil, nil)
	decodeBody(t, resp, &count)
	require.Equal(t, 1, count.LikeCount)

	resp = doJSON(t, env, http.MethodPost, fmt.Sprintf("/likes/reviews/%d/unlike", reviewID), nil, bobCookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &like)
	require.False(t, like.IsLiked)

	resp = doJSON(t, env, http.MethodGet, fmt.Sprintf("/reviews/%d/like_count", reviewID), nil, nil)
	decodeBody(t, resp, &count)
	require.Equal(t, 0, count.LikeCount)

	// Unliking a review never liked reports an unliked state.
	resp = doJSON(t, env, http.MethodPost, fmt.Sprintf("/likes/reviews/%d/unlike", reviewID), nil, aliceCookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &like)
	require.False(t, like.IsLiked)
}
