package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/reval-dev/reval/pkg/reval"
)

// CurrentSnapshotVersion is the current version of the snapshot format.
// Increment when making breaking changes to the envelope.
const CurrentSnapshotVersion = 1

// snapshotEnvelope is the JSON-serializable snapshot of a registry.
type snapshotEnvelope struct {
	// Version is the snapshot format version.
	Version int `json:"version"`

	// TakenAt is when the snapshot was taken.
	TakenAt time.Time `json:"taken_at"`

	// Signals contains signal values by registry key.
	Signals map[string]json.RawMessage `json:"signals,omitempty"`
}

// Registry maps stable keys to signals for snapshot and restore.
type Registry struct {
	mu      sync.RWMutex
	signals map[string]reval.AnySignal
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		signals: make(map[string]reval.AnySignal),
	}
}

// Register adds a signal under a stable key.
// Returns an error if the key is already taken.
func (r *Registry) Register(key string, sig reval.AnySignal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.signals[key]; ok {
		return fmt.Errorf("persist: key %q already registered", key)
	}
	r.signals[key] = sig
	return nil
}

// Keys returns the registered keys.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.signals))
	for key := range r.signals {
		keys = append(keys, key)
	}
	return keys
}

// Snapshot serializes every registered signal's current value.
func (r *Registry) Snapshot() ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	env := snapshotEnvelope{
		Version: CurrentSnapshotVersion,
		TakenAt: time.Now().UTC(),
		Signals: make(map[string]json.RawMessage, len(r.signals)),
	}
	for key, sig := range r.signals {
		data, err := sig.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("persist: snapshot %q: %w", key, err)
		}
		env.Signals[key] = data
	}
	return json.Marshal(env)
}

// Restore writes snapshot values back into the registered signals.
// Keys present in the snapshot but not registered are skipped; registered
// signals absent from the snapshot are left alone. Every restored signal's
// version is bumped, so dependents recompute on their next read.
func (r *Registry) Restore(data []byte) error {
	var env snapshotEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("persist: decode snapshot: %w", err)
	}
	if env.Version != CurrentSnapshotVersion {
		return SnapshotVersionError{Version: env.Version}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for key, raw := range env.Signals {
		sig, ok := r.signals[key]
		if !ok {
			continue
		}
		if err := sig.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("persist: restore %q: %w", key, err)
		}
	}
	return nil
}

// SaveTo snapshots the registry into a store. A ttl of 0 means the
// snapshot never expires.
func (r *Registry) SaveTo(ctx context.Context, store Store, key string, ttl time.Duration) error {
	data, err := r.Snapshot()
	if err != nil {
		return err
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	return store.Save(ctx, key, data, expiresAt)
}

// ErrSnapshotNotFound is returned by LoadFrom when the store has no
// snapshot under the requested key.
type ErrSnapshotNotFound struct {
	Key string
}

func (e ErrSnapshotNotFound) Error() string {
	return "persist: snapshot not found: " + e.Key
}

// LoadFrom loads a snapshot from a store and restores it.
func (r *Registry) LoadFrom(ctx context.Context, store Store, key string) error {
	data, err := store.Load(ctx, key)
	if err != nil {
		return err
	}
	if data == nil {
		return ErrSnapshotNotFound{Key: key}
	}
	return r.Restore(data)
}
