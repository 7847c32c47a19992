package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPurpose distinguishes session access tokens from the
// longer-lived refresh tokens.
type TokenPurpose string

const (
	PurposeAccess  TokenPurpose = "access"
	PurposeRefresh TokenPurpose = "refresh"
)

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, malformed payload, expiry, or purpose mismatch.
var ErrInvalidToken = errors.New("invalid token")

// Claims embeds the registered JWT claims and adds the subject user id
// and the token purpose.
type Claims struct {
	jwt.RegisteredClaims
	UserID  int64        `json:"user_id"`
	Purpose TokenPurpose `json:"purpose"`
}

// TokenService issues and verifies signed, time-bounded tokens. The
// clock is injectable so expiry can be tested without sleeping.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// TokenOption configures a TokenService at construction.
type TokenOption func(*TokenService)

// WithClock replaces the time source used for issuing and validating
// tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(secret []byte, accessTTL, refreshTTL time.Duration, opts ...TokenOption) *TokenService {
	s := &TokenService{
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueAccess signs a short-lived access token for userID.
func (s *TokenService) IssueAccess(userID int64) (string, error) {
	return s.issue(userID, PurposeAccess, s.accessTTL)
}

// IssueRefresh signs a refresh token for userID.
func (s *TokenService) IssueRefresh(userID int64) (string, error) {
	return s.issue(userID, PurposeRefresh, s.refreshTTL)
}

func (s *TokenService) issue(userID int64, purpose TokenPurpose, ttl time.Duration) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:  userID,
		Purpose: purpose,
	})
	return token.SignedString(s.secret)
}

// Verify parses tokenString and returns the subject user id. It fails
// with ErrInvalidToken when the signature does not match, the payload
// is malformed, the token has expired, or the purpose differs from
// wantPurpose.
func (s *TokenService) Verify(tokenString string, wantPurpose TokenPurpose) (int64, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	if claims.Purpose != wantPurpose {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}
