package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/oksasatya/blogsphere/internal/domain/repository"
)

const sessionKeyPrefix = "session:"

// SessionStore keeps session bindings as Redis hashes expiring with the session.
type SessionStore struct {
	rdb goredis.UniversalClient
}

func NewSessionStore(rdb goredis.UniversalClient) *SessionStore {
	return &SessionStore{rdb: rdb}
}

func sessionKey(sid string) string { return sessionKeyPrefix + sid }

func (s *SessionStore) Save(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	key := sessionKey(sessionID)
	_, err := s.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.HSet(ctx, key, "user_id", userID, "created_at", time.Now().UTC().Format(time.RFC3339))
		p.Expire(ctx, key, ttl)
		return nil
	})
	return err
}

func (s *SessionStore) Lookup(ctx context.Context, sessionID string) (string, error) {
	uid, err := s.rdb.HGet(ctx, sessionKey(sessionID), "user_id").Result()
	if errors.Is(err, goredis.Nil) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return uid, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, sessionKey(sessionID)).Err()
}

var _ repository.SessionStore = (*SessionStore)(nil)
