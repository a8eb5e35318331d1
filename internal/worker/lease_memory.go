package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryLease struct {
	token   string
	expires time.Time
}

// MemoryLeaseStore keeps leases in process. It serves a single consumer process
// when no redis is configured.
type MemoryLeaseStore struct {
	mu     sync.Mutex
	leases map[string]memoryLease
	now    func() time.Time
}

func NewMemoryLeaseStore() *MemoryLeaseStore {
	return &MemoryLeaseStore{
		leases: make(map[string]memoryLease),
		now:    time.Now,
	}
}

func (m *MemoryLeaseStore) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	if ttl <= 0 {
		return "", false, fmt.Errorf("lease ttl must be > 0")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if l, exists := m.leases[key]; exists && now.Before(l.expires) {
		return "", false, nil
	}

	token := uuid.New().String()
	m.leases[key] = memoryLease{token: token, expires: now.Add(ttl)}
	return token, true, nil
}

func (m *MemoryLeaseStore) Release(ctx context.Context, key string, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.leases[key].token == token {
		delete(m.leases, key)
	}
	return nil
}

// Expire forces a lease to expire. Test use only.
func (m *MemoryLeaseStore) Expire(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.leases, key)
}
