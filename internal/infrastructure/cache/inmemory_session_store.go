package cache

import (
	"context"
	"sync"
	"time"

	"github.com/billed/backend/internal/domain/session"
)

type entry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// InMemorySessionStore implements SessionStore using a map.
// Suitable for single-instance deployments and tests.
type InMemorySessionStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time

	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemorySessionStore creates a store whose keys live for ttl (0 = forever).
// A background goroutine evicts expired keys until Close is called.
func NewInMemorySessionStore(ttl time.Duration) *InMemorySessionStore {
	s := &InMemorySessionStore{
		entries:  make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.cleanupLoop()
	return s
}

// ForSession returns the KV of one session
func (s *InMemorySessionStore) ForSession(sessionID string) session.KV {
	return &memoryKV{store: s, sessionID: sessionID}
}

// Ping always succeeds unless ctx is done
func (s *InMemorySessionStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (s *InMemorySessionStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
	return nil
}

// Size returns the number of live keys
func (s *InMemorySessionStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	n := 0
	for _, e := range s.entries {
		if !e.expired(now) {
			n++
		}
	}
	return n
}

func (s *InMemorySessionStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictExpired()
		case <-s.stopChan:
			return
		}
	}
}

func (s *InMemorySessionStore) evictExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, k)
		}
	}
}

type memoryKV struct {
	store     *InMemorySessionStore
	sessionID string
}

func (kv *memoryKV) key(k string) string {
	return sessionKey(DefaultKeyPrefix, kv.sessionID, k)
}

func (kv *memoryKV) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s := kv.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[kv.key(key)]
	if !ok || e.expired(s.now()) {
		return "", session.ErrNotFound
	}
	return e.value, nil
}

func (kv *memoryKV) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := kv.store
	s.mu.Lock()
	defer s.mu.Unlock()
	e := entry{value: value}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.entries[kv.key(key)] = e
	return nil
}

func (kv *memoryKV) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := kv.store
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, kv.key(key))
	return nil
}

var _ SessionStore = (*InMemorySessionStore)(nil)
