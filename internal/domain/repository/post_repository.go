package repository

import (
	"context"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
)

// PostRepository defines the content store operations. Posts come back with
// comments loaded in append order but with Author fields unresolved.
type PostRepository interface {
	// Create persists p and fills ID, Version and timestamps.
	Create(ctx context.Context, p *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	// List returns every post in insertion order.
	List(ctx context.Context) ([]*entity.Post, error)
	// ListByAuthor returns the posts of one author in insertion order.
	ListByAuthor(ctx context.Context, authorID string) ([]*entity.Post, error)
	// Update replaces title and body of the post owned by p.AuthorID. A zero
	// expectedVersion skips the version check. Returns ErrNotFound when no
	// such post exists and ErrConflict when the version check fails.
	Update(ctx context.Context, p *entity.Post, expectedVersion int) error
	// Delete removes the post owned by authorID, returning ErrNotFound when
	// nothing was deleted.
	Delete(ctx context.Context, id, authorID string) error
	// AddComment appends c to the post, filling ID and CreatedAt. Returns
	// ErrNotFound when the post does not exist.
	AddComment(ctx context.Context, postID string, c *entity.Comment) error
}
