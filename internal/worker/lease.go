package worker

import (
	"context"
	"time"
)

// LeaseStore grants exclusive, expiring ownership of a key. Acquire returns
// ok=false without error when the key is already held.
type LeaseStore interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Release(ctx context.Context, key string, token string) error
}
