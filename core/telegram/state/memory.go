package state

import (
	"context"
	"sync"
)

type memoryTracker struct {
	mu   sync.RWMutex
	live map[int64]int
}

// NewMemoryTracker returns a process-lifetime Tracker. It never fails.
func NewMemoryTracker() Tracker {
	return &memoryTracker{live: make(map[int64]int)}
}

func (m *memoryTracker) Get(_ context.Context, userID int64) (int, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.live[userID]
	return id, ok, nil
}

func (m *memoryTracker) Set(_ context.Context, userID int64, messageID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.live[userID] = messageID
	return nil
}
