package persist

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory snapshot store.
// It's suitable for tests and single-process checkpointing. For durable
// storage, use SQLStore or S3Store.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]*storedSnapshot
	closed    bool
	done      chan struct{}
}

type storedSnapshot struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStoreOption configures MemoryStore behavior.
type MemoryStoreOption func(*memoryStoreConfig)

type memoryStoreConfig struct {
	cleanupInterval time.Duration
}

// WithCleanupInterval sets how often expired snapshots are cleaned up.
// Default: 1 minute.
func WithCleanupInterval(d time.Duration) MemoryStoreOption {
	return func(c *memoryStoreConfig) {
		c.cleanupInterval = d
	}
}

// NewMemoryStore creates a new in-memory snapshot store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	cfg := &memoryStoreConfig{
		cleanupInterval: 1 * time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	store := &MemoryStore{
		snapshots: make(map[string]*storedSnapshot),
		done:      make(chan struct{}),
	}

	go store.cleanupLoop(cfg.cleanupInterval)
	return store
}

// Save stores snapshot data, overwriting any previous snapshot for the key.
func (m *MemoryStore) Save(ctx context.Context, key string, data []byte, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed{}
	}

	// Make a copy of data to prevent mutations
	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	m.snapshots[key] = &storedSnapshot{
		data:      dataCopy,
		expiresAt: expiresAt,
	}
	return nil
}

// Load retrieves snapshot data if it exists and hasn't expired.
func (m *MemoryStore) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed{}
	}

	s, ok := m.snapshots[key]
	if !ok {
		return nil, nil
	}

	if !s.expiresAt.IsZero() && time.Now().After(s.expiresAt) {
		return nil, nil
	}

	// Return a copy to prevent mutations
	dataCopy := make([]byte, len(s.data))
	copy(dataCopy, s.data)
	return dataCopy, nil
}

// Delete removes a snapshot from the store.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed{}
	}

	delete(m.snapshots, key)
	return nil
}

// Close shuts down the store and releases resources.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	m.snapshots = nil
	return nil
}

// cleanupLoop periodically removes expired snapshots.
func (m *MemoryStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

var _ Store = (*MemoryStore)(nil)

// cleanup removes expired snapshots.
func (m *MemoryStore) cleanup() {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	for key, s := range m.snapshots {
		if !s.expiresAt.IsZero() && now.After(s.expiresAt) {
			delete(m.snapshots, key)
		}
	}
}
