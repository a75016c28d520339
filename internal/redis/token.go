package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const tokenKeyPrefix = "session:token:"

// TokenStore keeps session bearer tokens in Redis so a session survives a
// restart of this process.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenStore creates a new TokenStore. Tokens expire after ttl.
func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

// Get returns the token for the session, or "" on a miss.
func (s *TokenStore) Get(ctx context.Context, sessionID string) (string, error) {
	token, err := s.client.Get(ctx, tokenKeyPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return token, nil
}

// Set stores the token for the session and refreshes its TTL.
func (s *TokenStore) Set(ctx context.Context, sessionID, token string) error {
	return s.client.Set(ctx, tokenKeyPrefix+sessionID, token, s.ttl).Err()
}

// Clear removes the token for the session.
func (s *TokenStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, tokenKeyPrefix+sessionID).Err()
}
