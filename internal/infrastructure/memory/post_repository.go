package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
	"github.com/oksasatya/blogsphere/internal/domain/repository"
)

// PostRepository keeps posts in insertion order. Update and delete follow
// the same conditional semantics as the Postgres implementation.
type PostRepository struct {
	mu    sync.RWMutex
	posts map[string]*entity.Post
	order []string
}

func NewPostRepository() *PostRepository {
	return &PostRepository{posts: make(map[string]*entity.Post)}
}

func (r *PostRepository) Create(_ context.Context, p *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.Version = 1
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Comments = []entity.Comment{}

	r.posts[p.ID] = clonePost(p)
	r.order = append(r.order, p.ID)
	return nil
}

func (r *PostRepository) GetByID(_ context.Context, id string) (*entity.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clonePost(p), nil
}

func (r *PostRepository) List(_ context.Context) ([]*entity.Post, error) {
	return r.filter(func(*entity.Post) bool { return true }), nil
}

func (r *PostRepository) ListByAuthor(_ context.Context, authorID string) ([]*entity.Post, error) {
	return r.filter(func(p *entity.Post) bool { return p.AuthorID == authorID }), nil
}

func (r *PostRepository) filter(keep func(*entity.Post) bool) []*entity.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Post, 0, len(r.order))
	for _, id := range r.order {
		if p := r.posts[id]; keep(p) {
			out = append(out, clonePost(p))
		}
	}
	return out
}

func (r *PostRepository) Update(_ context.Context, p *entity.Post, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.posts[p.ID]
	if !ok || stored.AuthorID != p.AuthorID {
		return repository.ErrNotFound
	}
	if expectedVersion != 0 && stored.Version != expectedVersion {
		return repository.ErrConflict
	}
	stored.Title = p.Title
	stored.Body = p.Body
	stored.Version++
	stored.UpdatedAt = time.Now().UTC()

	p.Version = stored.Version
	p.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *PostRepository) Delete(_ context.Context, id, authorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.posts[id]
	if !ok || stored.AuthorID != authorID {
		return repository.ErrNotFound
	}
	delete(r.posts, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *PostRepository) AddComment(_ context.Context, postID string, c *entity.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.posts[postID]
	if !ok {
		return repository.ErrNotFound
	}
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()
	cp := *c
	cp.Author = nil
	stored.Comments = append(stored.Comments, cp)
	return nil
}

func clonePost(p *entity.Post) *entity.Post {
	cp := *p
	cp.Author = nil
	cp.Comments = make([]entity.Comment, len(p.Comments))
	copy(cp.Comments, p.Comments)
	for i := range cp.Comments {
		cp.Comments[i].Author = nil
	}
	return &cp
}

var _ repository.PostRepository = (*PostRepository)(nil)
