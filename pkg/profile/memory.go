package profile

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore implements Store and UsageStore in memory.
// Intended for tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]Record
	usage    map[string]int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[uuid.UUID]Record),
		usage:    make(map[string]int64),
	}
}

// Put stores a profile record.
func (m *MemoryStore) Put(r Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[r.UserID] = r
}

// Remove deletes a profile record.
func (m *MemoryStore) Remove(userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.profiles, userID)
}

// GetProfile returns the stored record or ErrProfileNotFound.
func (m *MemoryStore) GetProfile(ctx context.Context, userID uuid.UUID) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}

	cp := r
	return &cp, nil
}

// MonthlyUsage returns the in-memory counter for the user and period.
func (m *MemoryStore) MonthlyUsage(ctx context.Context, userID uuid.UUID, yearMonth string) (int64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count, ok := m.usage[memUsageKey(userID, yearMonth)]
	return count, ok, nil
}

// IncrementUsage adds delta to the counter and returns the new value.
func (m *MemoryStore) IncrementUsage(ctx context.Context, userID uuid.UUID, yearMonth string, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := memUsageKey(userID, yearMonth)
	m.usage[key] += delta
	return m.usage[key], nil
}

func memUsageKey(userID uuid.UUID, yearMonth string) string {
	return fmt.Sprintf("%s:%s", userID, yearMonth)
}

var (
	_ Store         = (*MemoryStore)(nil)
	_ UsageRecorder = (*MemoryStore)(nil)
)
