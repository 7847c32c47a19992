package http

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"movie-review/internal/auth"
	"movie-review/internal/domain"
	"movie-review/internal/httperr"
)

const identityKey = "identity"

// protectedPatterns is the declarative table of paths that require a
// valid access token. Patterns are tried in order; the first match
// wins and the check applies to every method on the path.
var protectedPatterns = compilePatterns(
	`^/users/me$`,
	`^/users/me/profile_image$`,
	`^/users/me/reviews$`,
	`^/reviews$`,
	`^/reviews/\d+$`,
	`^/reviews/\d+/is_liked$`,
	`^/likes/reviews/\d+/like$`,
	`^/likes/reviews/\d+/unlike$`,
)

func compilePatterns(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	return compiled
}

func requiresAuth(path string) bool {
	for _, pattern := range protectedPatterns {
		if pattern.MatchString(path) {
			return true
		}
	}
	return false
}

// AuthMiddleware is the single choke point for request authorization
// and error rendering. Protected paths are authenticated before the
// handler runs, with the resolved identity attached to the request
// context; every failure raised during authentication or by a
// downstream handler is rendered once as {"detail": ...}.
func AuthMiddleware(authSvc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if requiresAuth(c.Request.URL.Path) {
			user, err := authSvc.Authenticate(c.Request.Context(), accessTokenFromRequest(c))
			if err != nil {
				renderError(c, err)
				c.Abort()
				return
			}
			c.Set(identityKey, user)
		}

		c.Next()

		if len(c.Errors) > 0 {
			renderError(c, c.Errors.Last().Err)
		}
	}
}

// accessTokenFromRequest reads the access token cookie, falling back
// to an Authorization bearer header.
func accessTokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(accessTokenCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// renderError translates a typed failure into the wire format. Any
// error that is not an httperr.Error is an unexpected fault and
// surfaces as 500 with its string representation.
func renderError(c *gin.Context, err error) {
	if c.Writer.Written() {
		return
	}
	var httpErr *httperr.Error
	if errors.As(err, &httpErr) {
		c.JSON(httpErr.Status, gin.H{"detail": httpErr.Detail})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
}

// identityFromContext returns the authenticated user attached by the
// middleware. It is only valid on protected routes.
func identityFromContext(c *gin.Context) (*domain.User, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*domain.User)
	return user, ok
}
