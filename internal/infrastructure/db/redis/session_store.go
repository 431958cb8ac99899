package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taskboard/taskboard-api/internal/core/domain"
)

const defaultSessionTTL = 24 * time.Hour

// SessionStore keeps the current session token per user with an expiry.
// Key format: session:<user_id>
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Save(ctx context.Context, userID, token string) error {
	return s.client.Set(ctx, s.key(userID), token, s.ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, userID string) (string, error) {
	token, err := s.client.Get(ctx, s.key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrSessionNotFound
		}
		return "", fmt.Errorf("session get: %w", err)
	}
	return token, nil
}

func (s *SessionStore) Delete(ctx context.Context, userID string) error {
	return s.client.Del(ctx, s.key(userID)).Err()
}

func (s *SessionStore) key(userID string) string {
	return "session:" + userID
}
