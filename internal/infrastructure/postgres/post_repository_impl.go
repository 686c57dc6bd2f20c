package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
	"github.com/oksasatya/blogsphere/internal/domain/repository"
)

const postColumns = `id, title, body, author_id, version, created_at, updated_at`

// PostRepository stores posts and their comments in two tables. Insertion
// order is carried by the identity column seq on both.
type PostRepository struct {
	db DB
}

func NewPostRepository(db DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO posts (title, body, author_id)
		VALUES ($1, $2, $3)
		RETURNING id, version, created_at, updated_at
	`, p.Title, p.Body, p.AuthorID)

	if err := row.Scan(&p.ID, &p.Version, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return mapError(err)
	}
	p.Comments = []entity.Comment{}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	p := &entity.Post{}
	row := r.db.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	if err := row.Scan(&p.ID, &p.Title, &p.Body, &p.AuthorID, &p.Version, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	if err := r.loadComments(ctx, []*entity.Post{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostRepository) List(ctx context.Context) ([]*entity.Post, error) {
	return r.list(ctx, `SELECT `+postColumns+` FROM posts ORDER BY seq`)
}

func (r *PostRepository) ListByAuthor(ctx context.Context, authorID string) ([]*entity.Post, error) {
	if !validID(authorID) {
		return []*entity.Post{}, nil
	}
	return r.list(ctx, `SELECT `+postColumns+` FROM posts WHERE author_id = $1 ORDER BY seq`, authorID)
}

func (r *PostRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Post, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []*entity.Post{}
	for rows.Next() {
		p := &entity.Post{}
		if err := rows.Scan(&p.ID, &p.Title, &p.Body, &p.AuthorID, &p.Version, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadComments(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// loadComments fills Comments on every post with a single query.
func (r *PostRepository) loadComments(ctx context.Context, posts []*entity.Post) error {
	if len(posts) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Post, len(posts))
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		p.Comments = []entity.Comment{}
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, post_id, author_id, content, created_at
		FROM comments
		WHERE post_id = ANY($1::uuid[])
		ORDER BY seq
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			c      entity.Comment
			postID string
		)
		if err := rows.Scan(&c.ID, &postID, &c.AuthorID, &c.Content, &c.CreatedAt); err != nil {
			return err
		}
		if p, ok := byID[postID]; ok {
			p.Comments = append(p.Comments, c)
		}
	}
	return rows.Err()
}

func (r *PostRepository) Update(ctx context.Context, p *entity.Post, expectedVersion int) error {
	if !validID(p.ID) || !validID(p.AuthorID) {
		return repository.ErrNotFound
	}
	row := r.db.QueryRow(ctx, `
		UPDATE posts
		SET title = $1, body = $2, version = version + 1, updated_at = now()
		WHERE id = $3 AND author_id = $4 AND ($5 = 0 OR version = $5)
		RETURNING version, updated_at
	`, p.Title, p.Body, p.ID, p.AuthorID, expectedVersion)

	err := row.Scan(&p.Version, &p.UpdatedAt)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return mapError(err)
	}

	// Nothing matched: tell a missing or foreign post apart from a stale version.
	var current int
	err = r.db.QueryRow(ctx, `SELECT version FROM posts WHERE id = $1 AND author_id = $2`, p.ID, p.AuthorID).Scan(&current)
	if err != nil {
		return mapError(err)
	}
	return repository.ErrConflict
}

func (r *PostRepository) Delete(ctx context.Context, id, authorID string) error {
	if !validID(id) || !validID(authorID) {
		return repository.ErrNotFound
	}
	res, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1 AND author_id = $2`, id, authorID)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostRepository) AddComment(ctx context.Context, postID string, c *entity.Comment) error {
	if !validID(postID) {
		return repository.ErrNotFound
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO comments (post_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, postID, c.AuthorID, c.Content)

	return mapError(row.Scan(&c.ID, &c.CreatedAt))
}

var _ repository.PostRepository = (*PostRepository)(nil)
