package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLockStore creates a new LockStore whose locks expire after ttl.
func NewLockStore(client *redis.Client, ttl time.Duration) *LockStore {
	return &LockStore{client: client, ttl: ttl}
}

// AcquireConfirmLock claims the right to turn a payment intent into a booking.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireConfirmLock(ctx context.Context, paymentIntentID string) (bool, error) {
	key := fmt.Sprintf("lock:payment:%s", paymentIntentID)

	ok, err := s.client.SetNX(ctx, key, "1", s.ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseConfirmLock releases the lock for a payment intent.
func (s *LockStore) ReleaseConfirmLock(ctx context.Context, paymentIntentID string) error {
	key := fmt.Sprintf("lock:payment:%s", paymentIntentID)

	return s.client.Del(ctx, key).Err()
}
