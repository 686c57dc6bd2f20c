package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
	repo "github.com/oksasatya/blogsphere/internal/domain/repository"
	"github.com/oksasatya/blogsphere/pkg/helpers"
	"github.com/oksasatya/blogsphere/pkg/metrics"
)

// AuthService registers users and verifies their credentials.
type AuthService struct {
	Repo   repo.UserRepository
	Logger *logrus.Logger

	// dummyHash is compared against when the username is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash string
	compare   func(hash, plain string) bool
}

func NewAuthService(repo repo.UserRepository, logger *logrus.Logger) *AuthService {
	dummy, err := helpers.HashPassword("blogsphere-timing-equalizer")
	if err != nil {
		panic("bcrypt unavailable: " + err.Error())
	}
	return &AuthService{Repo: repo, Logger: logger, dummyHash: dummy, compare: helpers.CompareHashAndPassword}
}

// Register creates a user and returns its id. Usernames are matched exactly.
func (s *AuthService) Register(ctx context.Context, username, password string) (string, error) {
	if err := required("username", username); err != nil {
		return "", err
	}
	if err := required("password", password); err != nil {
		return "", err
	}

	existing, err := s.Repo.GetByUsername(ctx, username)
	switch {
	case err == nil && existing != nil:
		return "", ErrDuplicateUsername
	case err != nil && !errors.Is(err, repo.ErrNotFound):
		return "", storageError("lookup user", err)
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		if errors.Is(err, helpers.ErrPasswordTooLong) {
			return "", &ValidationError{Field: "password", Message: "must be at most 72 bytes"}
		}
		return "", err
	}

	u := &entity.User{Username: username, Password: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return "", ErrDuplicateUsername
		}
		return "", storageError("create user", err)
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("user registered")
	}
	return u.ID, nil
}

// Authenticate returns the id of the user matching username and password.
// Unknown users and wrong passwords both yield ErrInvalidCredentials after
// the same amount of hashing work.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (string, error) {
	u, err := s.Repo.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return "", storageError("lookup user", err)
	}

	hash := s.dummyHash
	if u != nil {
		hash = u.Password
	}
	ok := s.compare(hash, password)
	if u == nil || !ok {
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		return "", ErrInvalidCredentials
	}
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	return u.ID, nil
}
