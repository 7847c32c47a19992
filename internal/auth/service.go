package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"movie-review/internal/domain"
	"movie-review/internal/httperr"
	"movie-review/internal/repository"
)

// Service resolves request credentials into an authenticated identity.
// It owns no state beyond its collaborators and is safe for concurrent
// use.
type Service struct {
	users  repository.UserRepository
	tokens *TokenService
	logger logrus.FieldLogger
}

func NewService(users repository.UserRepository, tokens *TokenService, logger logrus.FieldLogger) *Service {
	return &Service{users: users, tokens: tokens, logger: logger}
}

// Login verifies the credentials and, on success, returns a fresh
// access/refresh token pair for the caller to deliver as cookies.
func (s *Service) Login(ctx context.Context, username, password string) (access, refresh string, err error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", "", httperr.Unauthorized(fmt.Sprintf("username: %s - not found.", username))
		}
		return "", "", fmt.Errorf("look up user %q: %w", username, err)
	}

	if !CheckPassword(password, user.HashedPassword) {
		return "", "", httperr.Unauthorized("password incorrect.")
	}

	access, err = s.tokens.IssueAccess(user.ID)
	if err != nil {
		return "", "", fmt.Errorf("issue access token: %w", err)
	}
	refresh, err = s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return "", "", fmt.Errorf("issue refresh token: %w", err)
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.Warnf("touch last login for user %d: %v", user.ID, err)
	}

	return access, refresh, nil
}

// Authenticate verifies an access token string and loads the account
// it names. The returned identity is scoped to the current request and
// must not be cached across requests.
func (s *Service) Authenticate(ctx context.Context, tokenString string) (*domain.User, error) {
	if tokenString == "" {
		return nil, httperr.Unauthorized("invalid token")
	}

	userID, err := s.tokens.Verify(tokenString, PurposeAccess)
	if err != nil {
		return nil, httperr.Unauthorized("invalid token")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// token outlived its account
			return nil, httperr.Unauthorized("Invalid Access Token.")
		}
		return nil, fmt.Errorf("look up user %d: %w", userID, err)
	}

	return user, nil
}

// HashPassword is a pass-through to the credential hasher for account
// creation and update flows.
func (s *Service) HashPassword(plaintext string) (string, error) {
	return HashPassword(plaintext)
}
