package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"movie-review/internal/httperr"
)

func TestRequiresAuth(t *testing.T) {
	t.Parallel()

	protected := []string{
		"/users/me",
		"/users/me/profile_image",
		"/users/me/reviews",
		"/reviews",
		"/reviews/1",
		"/reviews/42",
		"/reviews/7/is_liked",
		"/likes/reviews/7/like",
		"/likes/reviews/7/unlike",
	}
	for _, path := range protected {
		require.True(t, requiresAuth(path), "path %s should require auth", path)
	}

	public := []string{
		"/users",
		"/users/login",
		"/users/search",
		"/movies",
		"/movies/3",
		"/movies/3/reviews",
		"/reviews/3/like_count",
		"/reviews/abc",
		"/health",
	}
	for _, path := range public {
		require.False(t, requiresAuth(path), "path %s should be public", path)
	}
}

func TestAccessTokenFromRequest(t *testing.T) {
	t.Parallel()

	newCtx := func(req *http.Request) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = req
		return c
	}

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: "from-cookie"})
	require.Equal(t, "from-cookie", accessTokenFromRequest(newCtx(req)))

	req = httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer from-header")
	require.Equal(t, "from-header", accessTokenFromRequest(newCtx(req)))

	// Cookie wins over the header.
	req = httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: "from-cookie"})
	req.Header.Set("Authorization", "Bearer from-header")
	require.Equal(t, "from-cookie", accessTokenFromRequest(newCtx(req)))

	req = httptest.NewRequest(http.MethodGet, "/users/me", nil)
	require.Equal(t, "", accessTokenFromRequest(newCtx(req)))
}

func TestRenderError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	renderError(c, httperr.NotFound("Review does not exist"))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"detail": "Review does not exist"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	renderError(c, errors.New("disk on fire"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"detail": "disk on fire"}`, rec.Body.String())
}
