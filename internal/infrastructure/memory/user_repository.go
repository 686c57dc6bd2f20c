// Package memory provides in-process implementations of the repositories.
// They back the "memory" storage driver for single-node development and serve
// as test doubles; nothing survives a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
	"github.com/oksasatya/blogsphere/internal/domain/repository"
)

type UserRepository struct {
	mu         sync.RWMutex
	byID       map[string]*entity.User
	byUsername map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:       make(map[string]*entity.User),
		byUsername: make(map[string]string),
	}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[u.Username]; exists {
		return repository.ErrDuplicate
	}
	now := time.Now().UTC()
	u.ID = uuid.NewString()
	u.CreatedAt = now
	u.UpdatedAt = now

	cp := *u
	r.byID[u.ID] = &cp
	r.byUsername[u.Username] = u.ID
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r.byID[id]
	return &cp, nil
}

func (r *UserRepository) UpdateProfile(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.FullName = u.FullName
	stored.Bio = u.Bio
	stored.Email = u.Email
	stored.AvatarURL = u.AvatarURL
	stored.UpdatedAt = time.Now().UTC()
	u.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *UserRepository) ResolveAuthors(_ context.Context, ids []string) (map[string]entity.Author, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]entity.Author, len(ids))
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			out[id] = u.Public()
		}
	}
	return out, nil
}

var (
	_ repository.UserRepository = (*UserRepository)(nil)
	_ repository.AuthorResolver = (*UserRepository)(nil)
)
