package redis

import (
	"context"
	"time"

	"taxiweb/internal/session"
)

// ConfirmLocker defines the interface for payment-confirmation locking.
type ConfirmLocker interface {
	AcquireConfirmLock(ctx context.Context, paymentIntentID string) (bool, error)
	ReleaseConfirmLock(ctx context.Context, paymentIntentID string) error
}

// ResponseCache defines the interface for idempotent response storage.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// Ensure concrete types implement interfaces.
var (
	_ session.TokenStore = (*TokenStore)(nil)
	_ ConfirmLocker      = (*LockStore)(nil)
	_ ResponseCache      = (*ReplayStore)(nil)
)
