package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/blogsphere/internal/domain/repository"
)

// SessionStore keeps session bindings in process memory with lazy expiry.
// Not suitable when more than one server instance shares sessions.
type SessionStore struct {
	mu    sync.RWMutex
	items map[string]sessionItem
	now   func() time.Time
}

type sessionItem struct {
	userID    string
	expiresAt time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{items: make(map[string]sessionItem), now: time.Now}
}

func (s *SessionStore) Save(_ context.Context, sessionID, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[sessionID] = sessionItem{userID: userID, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *SessionStore) Lookup(_ context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	item, ok := s.items[sessionID]
	s.mu.RUnlock()
	if !ok {
		return "", repository.ErrNotFound
	}
	if !s.now().Before(item.expiresAt) {
		s.mu.Lock()
		delete(s.items, sessionID)
		s.mu.Unlock()
		return "", repository.ErrNotFound
	}
	return item.userID, nil
}

func (s *SessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, sessionID)
	return nil
}

// Sweep drops expired sessions and returns how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	now := s.now()
	for id, item := range s.items {
		if !now.Before(item.expiresAt) {
			delete(s.items, id)
			n++
		}
	}
	return n
}

var _ repository.SessionStore = (*SessionStore)(nil)
