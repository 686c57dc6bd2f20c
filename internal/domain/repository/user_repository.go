package repository

import (
	"context"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
)

// UserRepository defines the credential store operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	UpdateProfile(ctx context.Context, u *entity.User) error
}

// AuthorResolver joins user ids to their public identity. Ids with no matching
// user are simply absent from the result; callers decide what a dangling
// reference means.
type AuthorResolver interface {
	ResolveAuthors(ctx context.Context, ids []string) (map[string]entity.Author, error)
}
