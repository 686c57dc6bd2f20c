package postgres

import (
	"context"
	"time"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
	"github.com/oksasatya/blogsphere/internal/domain/repository"
)

const userColumns = `id, username, password_hash, email, full_name, bio, avatar_url, created_at, updated_at`

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, email, full_name, bio, avatar_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, u.Username, u.Password, u.Email, u.FullName, u.Bio, u.AvatarURL)

	return mapError(row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	u := &entity.User{}
	row := r.db.QueryRow(ctx, query, arg)
	if err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Email, &u.FullName, &u.Bio, &u.AvatarURL,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

// UpdateProfile writes the profile fields only. Username and password hash
// are never touched here.
func (r *UserRepository) UpdateProfile(ctx context.Context, u *entity.User) error {
	if !validID(u.ID) {
		return repository.ErrNotFound
	}
	u.UpdatedAt = time.Now().UTC()

	res, err := r.db.Exec(ctx, `
		UPDATE users
		SET email = $1, full_name = $2, bio = $3, avatar_url = $4, updated_at = $5
		WHERE id = $6
	`, u.Email, u.FullName, u.Bio, u.AvatarURL, u.UpdatedAt, u.ID)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ResolveAuthors(ctx context.Context, ids []string) (map[string]entity.Author, error) {
	out := make(map[string]entity.Author, len(ids))
	ids = validIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, username, full_name, avatar_url
		FROM users
		WHERE id = ANY($1::uuid[])
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var a entity.Author
		if err := rows.Scan(&a.ID, &a.Username, &a.FullName, &a.AvatarURL); err != nil {
			return nil, err
		}
		out[a.ID] = a
	}
	return out, rows.Err()
}

var (
	_ repository.UserRepository = (*UserRepository)(nil)
	_ repository.AuthorResolver = (*UserRepository)(nil)
)
