package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/blogsphere/internal/domain/repository"
	"github.com/oksasatya/blogsphere/pkg/helpers"
	"github.com/oksasatya/blogsphere/pkg/metrics"
)

// SessionManager binds principals to session tokens. A token is a signed
// envelope around a random session id; the binding lives in the store.
type SessionManager struct {
	Store  repo.SessionStore
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewSessionManager(store repo.SessionStore, jwt *helpers.JWTManager, logger *logrus.Logger) *SessionManager {
	return &SessionManager{Store: store, JWT: jwt, Logger: logger}
}

// CreateSession issues a fresh token for principal. Other sessions of the
// same user stay valid.
func (m *SessionManager) CreateSession(ctx context.Context, principal string) (string, time.Time, error) {
	if principal == "" {
		return "", time.Time{}, ErrUnauthenticated
	}
	sid := uuid.NewString()
	token, exp, err := m.JWT.GenerateSessionToken(sid)
	if err != nil {
		return "", time.Time{}, err
	}
	if err := m.Store.Save(ctx, sid, principal, time.Until(exp)); err != nil {
		return "", time.Time{}, storageError("save session", err)
	}
	return token, exp, nil
}

// Check returns the principal bound to token. Tokens that are missing,
// malformed, expired or unknown to the store fail with ErrUnauthenticated; a
// store that cannot answer fails with ErrStorage and says nothing about the
// token.
func (m *SessionManager) Check(ctx context.Context, token string) (string, error) {
	if token == "" {
		metrics.SessionsResolved.WithLabelValues("anonymous").Inc()
		return "", ErrUnauthenticated
	}
	claims, err := m.JWT.ParseSessionToken(token)
	if err != nil {
		metrics.SessionsResolved.WithLabelValues("anonymous").Inc()
		return "", ErrUnauthenticated
	}
	uid, err := m.Store.Lookup(ctx, claims.SessionID)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		metrics.SessionsResolved.WithLabelValues("anonymous").Inc()
		return "", ErrUnauthenticated
	case err != nil:
		metrics.SessionsResolved.WithLabelValues("error").Inc()
		helpers.LogError(m.Logger, "session lookup failed", err, logrus.Fields{"sid": claims.SessionID})
		return "", storageError("lookup session", err)
	case uid == "":
		metrics.SessionsResolved.WithLabelValues("anonymous").Inc()
		return "", ErrUnauthenticated
	}
	metrics.SessionsResolved.WithLabelValues("authenticated").Inc()
	return uid, nil
}

// Resolve returns the principal bound to token. Anything that does not
// resolve, including a failing store, is anonymous.
func (m *SessionManager) Resolve(ctx context.Context, token string) (string, bool) {
	uid, err := m.Check(ctx, token)
	return uid, err == nil
}

// Destroy removes the binding behind token. Unknown or malformed tokens are a no-op.
func (m *SessionManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := m.JWT.ParseSessionToken(token)
	if err != nil {
		return nil
	}
	if err := m.Store.Delete(ctx, claims.SessionID); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return storageError("delete session", err)
	}
	return nil
}
