package store

import (
	"context"
	"sync"
	"time"

	"github.com/zerocost/scheduler-backend/internal/model/chat"
)

type memoryEntry struct {
	history   chat.History
	expiresAt time.Time
}

// Memory is an in-memory HistoryStore suitable for development and tests.
// Expiry is checked lazily on read.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemory creates an in-memory store with the given retention window;
// ttl <= 0 means DefaultTTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, sessionID string) (chat.History, error) {
	m.mu.RLock()
	entry, ok := m.entries[historyKey(sessionID)]
	m.mu.RUnlock()

	if !ok || m.now().After(entry.expiresAt) {
		return nil, nil
	}

	copied := make(chat.History, len(entry.history))
	copy(copied, entry.history)
	return copied, nil
}

func (m *Memory) Put(_ context.Context, sessionID string, history chat.History) error {
	copied := make(chat.History, len(history))
	copy(copied, history)

	m.mu.Lock()
	m.entries[historyKey(sessionID)] = memoryEntry{
		history:   copied,
		expiresAt: m.now().Add(m.ttl),
	}
	m.mu.Unlock()
	return nil
}
