package persist

import (
	"context"
	"fmt"
	"time"
)

// Store defines the interface for snapshot persistence backends.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save persists a snapshot under the given key, overwriting any
	// previous one. A zero expiresAt means the snapshot never expires.
	Save(ctx context.Context, key string, data []byte, expiresAt time.Time) error

	// Load retrieves a snapshot by key.
	// Returns (nil, nil) if the snapshot doesn't exist or has expired.
	// Returns (data, nil) if found and not expired.
	// Returns (nil, err) on backend errors.
	Load(ctx context.Context, key string) ([]byte, error)

	// Delete removes a snapshot.
	// Should not return an error if the snapshot doesn't exist.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}

// ErrStoreClosed is returned when operations are attempted on a closed store.
type ErrStoreClosed struct{}

func (e ErrStoreClosed) Error() string {
	return "persist: store is closed"
}

// SnapshotVersionError is returned by Restore when the envelope was written
// by an incompatible format version.
type SnapshotVersionError struct {
	Version int
}

func (e SnapshotVersionError) Error() string {
	return fmt.Sprintf("persist: unsupported snapshot version %d", e.Version)
}
