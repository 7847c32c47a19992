package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"movie-review/internal/domain"
	"movie-review/internal/httperr"
	"movie-review/internal/repository"
	"movie-review/internal/storage"
)

// PasswordHasher hashes plaintext passwords for account creation and
// update flows. The auth service satisfies it.
type PasswordHasher interface {
	HashPassword(plaintext string) (string, error)
}

// UserUpdate carries a partial user update. Nil fields are untouched.
type UserUpdate struct {
	Username *string
	Password *string
	Age      *int
}

// UserService describes account lifecycle operations.
type UserService interface {
	Create(ctx context.Context, username, password string, age int, gender domain.Gender) (int64, error)
	List(ctx context.Context) ([]domain.User, error)
	Search(ctx context.Context, filter repository.UserFilter) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User, update UserUpdate) error
	Delete(ctx context.Context, id int64) error
	UploadProfileImage(ctx context.Context, user *domain.User, filename string, r io.Reader) error
}

type userService struct {
	users  repository.UserRepository
	hasher PasswordHasher
	media  storage.Service
}

func NewUserService(users repository.UserRepository, hasher PasswordHasher, media storage.Service) UserService {
	return &userService{users: users, hasher: hasher, media: media}
}

func (s *userService) Create(ctx context.Context, username, password string, age int, gender domain.Gender) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, httperr.BadRequest("username is required")
	}
	if password == "" {
		return 0, httperr.BadRequest("password is required")
	}
	if age <= 0 {
		return 0, httperr.BadRequest("age must be positive")
	}
	if !gender.Valid() {
		return 0, httperr.BadRequest("gender must be male or female")
	}

	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return 0, err
	}

	user := &domain.User{
		Username:       username,
		HashedPassword: hash,
		Age:            age,
		Gender:         gender,
	}
	id, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return 0, httperr.BadRequest("username already exists")
		}
		return 0, err
	}
	return id, nil
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	return s.Search(ctx, repository.UserFilter{})
}

func (s *userService) Search(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, httperr.NotFound("Not Found")
	}
	return users, nil
}

func (s *userService) Update(ctx context.Context, user *domain.User, update UserUpdate) error {
	if update.Username != nil {
		user.Username = strings.TrimSpace(*update.Username)
	}
	if update.Age != nil {
		if *update.Age <= 0 {
			return httperr.BadRequest("age must be positive")
		}
		user.Age = *update.Age
	}
	if update.Password != nil {
		hash, err := s.hasher.HashPassword(*update.Password)
		if err != nil {
			return err
		}
		user.HashedPassword = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return httperr.BadRequest("username already exists")
		}
		return err
	}
	return nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return httperr.NotFound("Not Found")
		}
		return err
	}
	return nil
}

func (s *userService) UploadProfileImage(ctx context.Context, user *domain.User, filename string, r io.Reader) error {
	url, err := saveImage(ctx, s.media, storage.ProfileImageDir, filename, r, user.ProfileImageURL)
	if err != nil {
		return err
	}
	user.ProfileImageURL = url
	return s.users.Update(ctx, user)
}
