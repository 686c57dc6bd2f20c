package application

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
	repo "github.com/oksasatya/blogsphere/internal/domain/repository"
)

// UserService serves the principal's own profile.
type UserService struct {
	Repo    repo.UserRepository
	Avatars AvatarStorage
	Logger  *logrus.Logger
}

func NewUserService(repo repo.UserRepository, avatars AvatarStorage, logger *logrus.Logger) *UserService {
	return &UserService{Repo: repo, Avatars: avatars, Logger: logger}
}

type UpdateProfileInput struct {
	FullName string
	Bio      string
	Email    string
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// a live session for a vanished user
			return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return nil, storageError("load user", err)
	}
	return u, nil
}

// UpdateProfile replaces the display fields. Username and credentials are untouched.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.FullName = in.FullName
	u.Bio = in.Bio
	u.Email = in.Email
	if err := s.save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// UploadAvatar stores an avatar image and records its URL on the profile.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (*entity.User, error) {
	if s.Avatars == nil {
		return nil, ErrUnavailable
	}
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	url, err := s.Avatars.UploadAvatar(ctx, userID, r, filename, contentType)
	if err != nil {
		return nil, storageError("upload avatar", err)
	}
	u.AvatarURL = url
	if err := s.save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) save(ctx context.Context, u *entity.User) error {
	if err := s.Repo.UpdateProfile(ctx, u); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("user %s: %w", u.ID, ErrNotFound)
		}
		return storageError("update profile", err)
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Debug("profile updated")
	}
	return nil
}
