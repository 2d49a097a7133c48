// Package store persists interview sessions between turns.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"peerprep/interview/internal/interview"
)

// MemoryStore keeps encoded sessions in process memory with an inactivity TTL.
// Sessions are stored as bytes so every Get hands out an independent copy.
type MemoryStore struct {
	entries map[string]*memoryEntry
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryStore creates a store whose entries expire ttl after their last save.
// A ttl <= 0 disables expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock replaces the clock used for expiry
func (m *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	m.now = now
	return m
}

func (m *MemoryStore) Get(_ context.Context, id string) (*interview.Session, error) {
	m.mu.RLock()
	entry, ok := m.entries[id]
	m.mu.RUnlock()

	if !ok || m.expired(entry, m.now()) {
		return nil, interview.ErrSessionNotFound
	}
	return decode(entry.data)
}

func (m *MemoryStore) Save(_ context.Context, s *interview.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", s.ID(), err)
	}

	entry := &memoryEntry{data: data}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	m.entries[s.ID()] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, id)
	return nil
}

// Sweep removes expired entries and returns how many were dropped
func (m *MemoryStore) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, entry := range m.entries {
		if m.expired(entry, now) {
			delete(m.entries, id)
			removed++
		}
	}
	return removed
}

// Size returns the number of stored sessions, expired or not
func (m *MemoryStore) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) expired(e *memoryEntry, now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

func decode(data []byte) (*interview.Session, error) {
	var s interview.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}
