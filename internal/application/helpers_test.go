package application

import (
	"context"
	"errors"
	"time"

	"github.com/oksasatya/blogsphere/internal/domain/entity"
	"github.com/oksasatya/blogsphere/internal/infrastructure/memory"
	"github.com/oksasatya/blogsphere/pkg/helpers"
)

var errBoom = errors.New("boom")

type fixture struct {
	users    *memory.UserRepository
	posts    *memory.PostRepository
	sessions *memory.SessionStore

	auth    *AuthService
	session *SessionManager
	content *PostService
}

func newFixture() *fixture {
	users := memory.NewUserRepository()
	posts := memory.NewPostRepository()
	sessions := memory.NewSessionStore()
	logger := helpers.NewDiscardLogger()
	return &fixture{
		users:    users,
		posts:    posts,
		sessions: sessions,
		auth:     NewAuthService(users, logger),
		session:  NewSessionManager(sessions, helpers.NewJWTManager("test-secret", time.Hour), logger),
		content:  NewPostService(posts, users, users, logger),
	}
}

func (f *fixture) mustRegister(username string) string {
	id, err := f.auth.Register(context.Background(), username, username+"-pw")
	if err != nil {
		panic(err)
	}
	return id
}

// failingSessionStore simulates an unreachable session backend.
type failingSessionStore struct{}

func (failingSessionStore) Save(context.Context, string, string, time.Duration) error { return errBoom }
func (failingSessionStore) Lookup(context.Context, string) (string, error) { return "", errBoom }
func (failingSessionStore) Delete(context.Context, string) error { return errBoom }

// flakyUsers fails lookups while leaving the rest of the repository intact.
type flakyUsers struct {
	*memory.UserRepository
}

func (flakyUsers) GetByUsername(context.Context, string) (*entity.User, error) { return nil, errBoom }

type recordingIndexer struct {
	indexed []string
	removed []string
	hits    []string
	err     error
}

func (r *recordingIndexer) Index(_ context.Context, p *entity.Post) error {
	r.indexed = append(r.indexed, p.ID)
	return r.err
}

func (r *recordingIndexer) Remove(_ context.Context, id string) error {
	r.removed = append(r.removed, id)
	return r.err
}

func (r *recordingIndexer) Search(context.Context, string, int) ([]string, error) {
	return r.hits, r.err
}

type recordingNotifier struct {
	sent []CommentNotification
}

func (r *recordingNotifier) NotifyComment(_ context.Context, n CommentNotification) error {
	r.sent = append(r.sent, n)
	return nil
}
