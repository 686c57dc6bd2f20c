package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
	repo "github.com/oksasatya/blogsphere/internal/domain/repository"
	"github.com/oksasatya/blogsphere/pkg/metrics"
)

// PostService creates, reads, updates and deletes posts and appends
// comments, always stamping the acting principal as author.
type PostService struct {
	Posts   repo.PostRepository
	Users   repo.UserRepository
	Authors repo.AuthorResolver
	Logger  *logrus.Logger

	// optional collaborators
	Indexer  PostIndexer
	Notifier CommentNotifier
}

func NewPostService(posts repo.PostRepository, users repo.UserRepository, authors repo.AuthorResolver, logger *logrus.Logger) *PostService {
	return &PostService{Posts: posts, Users: users, Authors: authors, Logger: logger}
}

// UpdatePostInput carries the editable fields. Version is the version the
// editor started from; zero means last write wins.
type UpdatePostInput struct {
	Title   string
	Body    string
	Version int
}

func (s *PostService) CreatePost(ctx context.Context, principal, title, body string) (string, error) {
	if principal == "" {
		return "", ErrUnauthenticated
	}
	if err := required("title", title); err != nil {
		return "", err
	}
	if err := required("content", body); err != nil {
		return "", err
	}

	p := &entity.Post{Title: title, Body: body, AuthorID: principal}
	if err := s.Posts.Create(ctx, p); err != nil {
		return "", storageError("create post", err)
	}
	metrics.PostOps.WithLabelValues("create").Inc()
	s.index(ctx, p)
	return p.ID, nil
}

// GetPost returns the post with its author and commenters resolved.
func (s *PostService) GetPost(ctx context.Context, id string) (*entity.Post, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.resolveAuthors(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListPosts returns all posts in creation order with authors resolved.
func (s *PostService) ListPosts(ctx context.Context) ([]*entity.Post, error) {
	posts, err := s.Posts.List(ctx)
	if err != nil {
		return nil, storageError("list posts", err)
	}
	if err := s.resolveAuthors(ctx, posts...); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListPostsByAuthor returns the posts written by authorID in creation order.
func (s *PostService) ListPostsByAuthor(ctx context.Context, authorID string) ([]*entity.Post, error) {
	posts, err := s.Posts.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, storageError("list posts by author", err)
	}
	if err := s.resolveAuthors(ctx, posts...); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPostForEdit loads a post the principal is allowed to edit.
func (s *PostService) GetPostForEdit(ctx context.Context, principal, id string) (*entity.Post, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(OpEditPost, NewRequestContext(principal), p); err != nil {
		return nil, err
	}
	if err := s.resolveAuthors(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePost replaces title and body of a post owned by principal. Absence
// is reported before ownership.
func (s *PostService) UpdatePost(ctx context.Context, principal, id string, in UpdatePostInput) (*entity.Post, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(OpEditPost, NewRequestContext(principal), p); err != nil {
		return nil, err
	}
	if err := required("title", in.Title); err != nil {
		return nil, err
	}
	if err := required("content", in.Body); err != nil {
		return nil, err
	}
	if in.Version != 0 && in.Version != p.Version {
		return nil, ErrStaleVersion
	}

	p.Title = in.Title
	p.Body = in.Body
	if err := s.Posts.Update(ctx, p, in.Version); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, fmt.Errorf("post %s: %w", id, ErrNotFound)
		case errors.Is(err, repo.ErrConflict):
			return nil, ErrStaleVersion
		}
		return nil, storageError("update post", err)
	}
	metrics.PostOps.WithLabelValues("update").Inc()
	s.index(ctx, p)

	if err := s.resolveAuthors(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeletePost removes a post owned by principal. Deleting twice is NotFound.
func (s *PostService) DeletePost(ctx context.Context, principal, id string) error {
	p, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(OpDeletePost, NewRequestContext(principal), p); err != nil {
		return err
	}
	if err := s.Posts.Delete(ctx, id, principal); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("post %s: %w", id, ErrNotFound)
		}
		return storageError("delete post", err)
	}
	metrics.PostOps.WithLabelValues("delete").Inc()

	if s.Indexer != nil {
		if err := s.Indexer.Remove(ctx, id); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("post_id", id).Warn("search index removal failed")
		}
	}
	return nil
}

// AddComment appends a comment stamped with principal and returns the post.
func (s *PostService) AddComment(ctx context.Context, principal, postID, content string) (*entity.Post, error) {
	if principal == "" {
		return nil, ErrUnauthenticated
	}
	p, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := required("content", content); err != nil {
		return nil, err
	}

	c := &entity.Comment{AuthorID: principal, Content: content}
	if err := s.Posts.AddComment(ctx, p.ID, c); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("post %s: %w", postID, ErrNotFound)
		}
		return nil, storageError("add comment", err)
	}
	metrics.Comments.Inc()

	updated, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, updated, *c)
	return updated, nil
}

// SearchPosts returns posts matching q in index relevance order. Without an
// indexer the result is empty.
func (s *PostService) SearchPosts(ctx context.Context, q string, size int) ([]*entity.Post, error) {
	if s.Indexer == nil || q == "" {
		return []*entity.Post{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	ids, err := s.Indexer.Search(ctx, q, size)
	if err != nil {
		return nil, storageError("search posts", err)
	}
	out := make([]*entity.Post, 0, len(ids))
	for _, id := range ids {
		p, err := s.Posts.GetByID(ctx, id)
		if err != nil {
			// the index can trail deletions
			if errors.Is(err, repo.ErrNotFound) {
				continue
			}
			return nil, storageError("load post", err)
		}
		out = append(out, p)
	}
	if err := s.resolveAuthors(ctx, out...); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostService) load(ctx context.Context, id string) (*entity.Post, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	p, err := s.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("post %s: %w", id, ErrNotFound)
		}
		return nil, storageError("load post", err)
	}
	return p, nil
}

// resolveAuthors fills Author on posts and comments. A reference to a user
// that does not exist is a storage inconsistency, not a missing post.
func (s *PostService) resolveAuthors(ctx context.Context, posts ...*entity.Post) error {
	if len(posts) == 0 {
		return nil
	}
	seen := map[string]struct{}{}
	var ids []string
	for _, p := range posts {
		for _, id := range p.AuthorIDs() {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	authors, err := s.Authors.ResolveAuthors(ctx, ids)
	if err != nil {
		return storageError("resolve authors", err)
	}
	for _, p := range posts {
		a, ok := authors[p.AuthorID]
		if !ok {
			return storageError("resolve authors", fmt.Errorf("post %s references missing user %s", p.ID, p.AuthorID))
		}
		p.Author = &a
		for i := range p.Comments {
			ca, ok := authors[p.Comments[i].AuthorID]
			if !ok {
				return storageError("resolve authors", fmt.Errorf("comment %s references missing user %s", p.Comments[i].ID, p.Comments[i].AuthorID))
			}
			p.Comments[i].Author = &ca
		}
	}
	return nil
}

func (s *PostService) index(ctx context.Context, p *entity.Post) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.Index(ctx, p); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("post_id", p.ID).Warn("search indexing failed")
	}
}

func (s *PostService) notify(ctx context.Context, p *entity.Post, c entity.Comment) {
	if s.Notifier == nil || s.Users == nil || p.AuthorID == c.AuthorID {
		return
	}
	author, err := s.Users.GetByID(ctx, p.AuthorID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("post_id", p.ID).Warn("comment notification skipped")
		}
		return
	}
	commenter := entity.Author{ID: c.AuthorID}
	for i := range p.Comments {
		if p.Comments[i].ID == c.ID && p.Comments[i].Author != nil {
			commenter = *p.Comments[i].Author
		}
	}
	n := CommentNotification{Post: p, Comment: c, Author: author, Commenter: commenter}
	if err := s.Notifier.NotifyComment(ctx, n); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("post_id", p.ID).Warn("comment notification failed")
	}
}
