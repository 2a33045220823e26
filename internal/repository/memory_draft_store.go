package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryDraftStore is a process-local DraftStore, used when Redis is not
// reachable. Drafts do not survive a restart and are not shared between
// replicas.
type MemoryDraftStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	locks   map[string]time.Time
	ttl     time.Duration
	lockTTL time.Duration
	now     func() time.Time
}

// NewMemoryDraftStore creates an in-memory draft store
func NewMemoryDraftStore(ttl, lockTTL time.Duration) *MemoryDraftStore {
	return &MemoryDraftStore{
		entries: make(map[string]memoryEntry),
		locks:   make(map[string]time.Time),
		ttl:     ttl,
		lockTTL: lockTTL,
		now:     time.Now,
	}
}

func (s *MemoryDraftStore) Save(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode draft %s: %w", key, err)
	}
	if ttl <= 0 {
		ttl = s.ttl
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweepLocked(now)
	s.entries[key] = memoryEntry{data: data, expiresAt: now.Add(ttl)}
	return nil
}

func (s *MemoryDraftStore) Load(ctx context.Context, key string, dest interface{}) error {
	s.mu.Lock()
	entry, ok := s.entries[key]
	if ok && !s.now().Before(entry.expiresAt) {
		delete(s.entries, key)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return ErrDraftNotFound
	}
	if err := json.Unmarshal(entry.data, dest); err != nil {
		return fmt.Errorf("failed to decode draft %s: %w", key, err)
	}
	return nil
}

func (s *MemoryDraftStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *MemoryDraftStore) AcquireLock(ctx context.Context, key string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)
	if until, held := s.locks[key]; held && now.Before(until) {
		return nil, ErrSubmissionInFlight
	}
	until := now.Add(s.lockTTL)
	s.locks[key] = until

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			// a lock that expired and was re-acquired belongs to someone else
			if s.locks[key].Equal(until) {
				delete(s.locks, key)
			}
		})
	}, nil
}

// sweepLocked drops expired drafts and locks. Callers hold s.mu.
func (s *MemoryDraftStore) sweepLocked(now time.Time) {
	for key, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
	for key, until := range s.locks {
		if !now.Before(until) {
			delete(s.locks, key)
		}
	}
}

func (s *MemoryDraftStore) Ping(ctx context.Context) error {
	return nil
}
