package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrClosed is returned by a MemoryStore after Close
var ErrClosed = errors.New("cache is closed")

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is an in-process Backend with per-item expiry and a
// background sweeper.
type MemoryStore struct {
	items     map[string]*memoryItem
	lock      sync.RWMutex
	closeChan chan struct{}
	closed    bool
	now       func() time.Time
}

// NewMemoryStore creates a store that sweeps expired items every interval
func NewMemoryStore(sweepInterval time.Duration) *MemoryStore {
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}
	s := &MemoryStore{
		items:     make(map[string]*memoryItem),
		closeChan: make(chan struct{}),
		now:       time.Now,
	}
	go s.cleanupRoutine(sweepInterval)
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.closed {
		return nil, false, ErrClosed
	}
	item, ok := s.items[key]
	if !ok || s.expired(item, s.now()) {
		return nil, false, nil
	}
	return item.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return ErrClosed
	}
	item := &memoryItem{value: value}
	if ttl > 0 {
		item.expiresAt = s.now().Add(ttl)
	}
	s.items[key] = item
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return ErrClosed
	}
	delete(s.items, key)
	return nil
}

// Len returns the number of stored items, expired or not
func (s *MemoryStore) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.items)
}

func (s *MemoryStore) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	close(s.closeChan)
	s.items = nil
	return nil
}

func (s *MemoryStore) expired(item *memoryItem, now time.Time) bool {
	return !item.expiresAt.IsZero() && now.After(item.expiresAt)
}

func (s *MemoryStore) cleanupRoutine(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.closeChan:
			return
		}
	}
}

func (s *MemoryStore) sweep() {
	s.lock.Lock()
	defer s.lock.Unlock()

	now := s.now()
	for key, item := range s.items {
		if s.expired(item, now) {
			delete(s.items, key)
		}
	}
}
