package reval

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
)

// Signal is a versioned reactive value container.
// Every completed mutable access bumps a monotonic version counter, which is
// the sole change-detection mechanism: derived values compare versions at
// read time instead of receiving notifications.
type Signal[T any] struct {
	id uint64

	// value is the current signal value.
	value T

	// mu protects the value. Version bumps happen under the write lock so
	// that a value/version pair read under the read lock is consistent.
	mu sync.RWMutex

	// version counts completed mutable accesses. Starts at 0.
	version atomic.Uint64

	// equal, when set, suppresses the version bump for Set/Update calls
	// that write an equal value. Never consulted by Mut.
	equal func(T, T) bool

	// mutGID is the id of the goroutine holding an outstanding mutable
	// handle, or 0 when none is held. A second Mut from that goroutine
	// would self-deadlock on mu, so it panics instead; handles requested
	// from other goroutines just block on mu until release.
	mutGID atomic.Uint64

	// deriveMu guards derivers.
	deriveMu sync.Mutex

	// derivers counts in-flight derivations over this signal, keyed by
	// goroutine id. A mutable access from a goroutine with a nonzero count
	// is re-entrant and panics; writers on other goroutines are unaffected
	// and only make the in-flight recompute go stale.
	derivers map[uint64]int
}

// NewSignal creates a new signal with the given initial value and version 0.
func NewSignal[T any](initial T, opts ...SignalOption[T]) *Signal[T] {
	s := &Signal[T]{
		id:    nextID(),
		value: initial,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the current value. Reading never changes the version.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	value := s.value
	s.mu.RUnlock()
	return value
}

// Version returns the signal's current version. The counter starts at 0 and
// strictly increases with every completed mutable access.
func (s *Signal[T]) Version() uint64 {
	return s.version.Load()
}

// Set replaces the value and bumps the version.
// If an equality function was configured with WithEquals and it reports the
// new value equal to the current one, the write is suppressed and the
// version does not move.
func (s *Signal[T]) Set(value T) {
	s.guardMutate()
	s.mu.Lock()
	if s.equal != nil && s.equal(s.value, value) {
		s.mu.Unlock()
		return
	}
	s.value = value
	s.version.Add(1)
	s.mu.Unlock()
}

// Update replaces the value using fn and bumps the version, subject to the
// same equality suppression as Set. fn runs under the signal's lock and must
// not touch the signal itself.
func (s *Signal[T]) Update(fn func(T) T) {
	s.guardMutate()
	s.mu.Lock()
	next := fn(s.value)
	if s.equal != nil && s.equal(s.value, next) {
		s.mu.Unlock()
		return
	}
	s.value = next
	s.version.Add(1)
	s.mu.Unlock()
}

// Mut acquires a scoped mutable handle on the value. The handle's Release
// commits the mutation, bumping the version exactly once no matter how the
// borrowing scope exits; callers should defer it:
//
//	m := s.Mut()
//	defer m.Release()
//	*m.Value() += 1
//
// Taking a handle counts as a change even if the value is never written.
// Mut panics with ErrMutHeld if the calling goroutine already holds a handle
// on this signal, and with ErrReentrantMutation if called from inside this
// signal's own derivation. A handle requested while another goroutine holds
// one blocks until that handle is released.
func (s *Signal[T]) Mut() *MutRef[T] {
	gid := goroutineID()
	if s.deriving(gid) {
		panic(ErrReentrantMutation)
	}
	if s.mutGID.Load() == gid {
		panic(ErrMutHeld)
	}
	s.mu.Lock()
	s.mutGID.Store(gid)
	return &MutRef[T]{sig: s}
}

// With runs fn with mutable access to the value, releasing the handle on
// every exit path including panics.
func (s *Signal[T]) With(fn func(*T)) {
	m := s.Mut()
	defer m.Release()
	fn(m.Value())
}

// String renders the current value and version for debugging.
func (s *Signal[T]) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("Signal(%v @v%d)", s.value, s.version.Load())
}

// ID returns the unique identifier for this signal.
func (s *Signal[T]) ID() uint64 {
	return s.id
}

// snapshot returns a consistent value/version pair.
func (s *Signal[T]) snapshot() (T, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.version.Load()
}

// guardMutate rejects mutable access issued from inside this signal's own
// derivation, or from a goroutine already holding its mutable handle.
// Mutation from other goroutines is serialized by the value lock instead.
func (s *Signal[T]) guardMutate() {
	gid := goroutineID()
	if s.deriving(gid) {
		panic(ErrReentrantMutation)
	}
	if s.mutGID.Load() == gid {
		panic(ErrMutHeld)
	}
}

// beginDerive records that a derivation on the current goroutine is reading
// this signal. The returned goroutine id must be passed to endDerive.
func (s *Signal[T]) beginDerive() uint64 {
	gid := goroutineID()
	s.deriveMu.Lock()
	if s.derivers == nil {
		s.derivers = make(map[uint64]int)
	}
	s.derivers[gid]++
	s.deriveMu.Unlock()
	return gid
}

// endDerive drops the derivation's read borrow for the given goroutine.
func (s *Signal[T]) endDerive(gid uint64) {
	s.deriveMu.Lock()
	s.derivers[gid]--
	if s.derivers[gid] == 0 {
		delete(s.derivers, gid)
	}
	s.deriveMu.Unlock()
}

// deriving reports whether the given goroutine has a derivation over this
// signal in flight.
func (s *Signal[T]) deriving(gid uint64) bool {
	s.deriveMu.Lock()
	n := s.derivers[gid]
	s.deriveMu.Unlock()
	return n > 0
}

// MutRef is a scoped mutable handle on a signal's value.
// The zero value is not usable; handles come from Signal.Mut.
type MutRef[T any] struct {
	sig      *Signal[T]
	released bool
}

// Value returns the mutable pointer guarded by this handle.
// Panics with ErrMutReleased after Release.
func (m *MutRef[T]) Value() *T {
	if m.released {
		panic(ErrMutReleased)
	}
	return &m.sig.value
}

// Release commits the mutation and bumps the version exactly once.
// Further calls are no-ops.
func (m *MutRef[T]) Release() {
	if m.released {
		return
	}
	m.released = true
	m.sig.version.Add(1)
	m.sig.mutGID.Store(0)
	m.sig.mu.Unlock()
}

// DefaultEquals provides type-appropriate equality checking for use with
// WithEquals. Uses == for common comparable types and reflect.DeepEqual
// for others.
func DefaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int8:
		return av == any(b).(int8)
	case int16:
		return av == any(b).(int16)
	case int32:
		return av == any(b).(int32)
	case int64:
		return av == any(b).(int64)
	case uint:
		return av == any(b).(uint)
	case uint8:
		return av == any(b).(uint8)
	case uint16:
		return av == any(b).(uint16)
	case uint32:
		return av == any(b).(uint32)
	case uint64:
		return av == any(b).(uint64)
	case float32:
		return av == any(b).(float32)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		// Fall back to reflect.DeepEqual for slices, maps, structs, etc.
		return reflect.DeepEqual(a, b)
	}
}
