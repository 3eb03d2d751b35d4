package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/pharmadocs/internal/domain/repository"
)

func sessionKey(sid string) string {
	return "session:" + sid
}

// SessionStore keeps sessions as plain keys so Redis expiry enforces the TTL.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

func (s *SessionStore) Save(ctx context.Context, sid, userID string, ttl time.Duration) error {
	ok, err := s.rdb.SetNX(ctx, sessionKey(sid), userID, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrConflict
	}
	return nil
}

func (s *SessionStore) Lookup(ctx context.Context, sid string) (string, error) {
	uid, err := s.rdb.Get(ctx, sessionKey(sid)).Result()
	if errors.Is(err, redis.Nil) {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return uid, nil
}

func (s *SessionStore) Remove(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, sessionKey(sid)).Err()
}

var _ repository.SessionStore = (*SessionStore)(nil)
