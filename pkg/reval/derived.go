package reval

import (
	"fmt"
	"sync"
	"time"
)

// Derived is a cached projection of exactly one Signal through a
// transformation function.
//
// Derived values are lazy: the transformation runs only when Get is called
// and the source's version differs from the version the cache was computed
// against. If the source is mutated several times between reads, the next
// read recomputes once.
//
// A Derived value never observes more than one signal and cannot itself be
// derived from; fan-out (many Derived values over one Signal) is fine and
// each projection recomputes independently.
type Derived[T, U any] struct {
	id   uint64
	name string

	// src is the signal this projection reads from. The projection must
	// not outlive it.
	src *Signal[T]

	// fn transforms the source value. Treated as pure: side effects are
	// not replayed on cache hits.
	fn func(T) U

	// mu serializes recomputation and cache access.
	mu sync.Mutex

	// cache holds the last computed value; valid only when cached is true.
	cache  U
	cached bool

	// lastSeen is the source version the cache was computed against.
	lastSeen uint64

	// obs, when set, is told about recomputes and cache hits.
	obs Observer
}

// Derive creates a lazy projection of src through fn.
// No computation happens until the first Get.
func Derive[T, U any](src *Signal[T], fn func(T) U, opts ...DerivedOption) *Derived[T, U] {
	cfg := applyDerivedOptions(opts)
	d := &Derived[T, U]{
		id:   nextID(),
		name: cfg.name,
		src:  src,
		fn:   fn,
		obs:  cfg.observer,
	}
	if d.name == "" {
		d.name = fmt.Sprintf("derived-%d", d.id)
	}
	return d
}

// Get returns the projection's value, recomputing if the source moved.
//
// The algorithm: read the source's current version; if the cache is unset
// or was computed against a different version, evaluate the transformation
// against the current value and restamp the cache; otherwise return the
// cache untouched.
func (d *Derived[T, U]) Get() U {
	d.mu.Lock()
	defer d.mu.Unlock()

	value, version := d.src.snapshot()
	if d.cached && version == d.lastSeen {
		if d.obs != nil {
			d.obs.OnCacheHit(d.name)
		}
		return d.cache
	}

	d.recomputeLocked(value, version)
	return d.cache
}

// Stale reports whether the next Get will recompute, either because the
// projection has never been read or because the source's version moved
// past the cached one.
func (d *Derived[T, U]) Stale() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.cached || d.src.Version() != d.lastSeen
}

// Name returns the projection's name as used in observer callbacks.
func (d *Derived[T, U]) Name() string {
	return d.name
}

// ID returns the unique identifier for this projection.
func (d *Derived[T, U]) ID() uint64 {
	return d.id
}

// String renders the cache state for debugging.
func (d *Derived[T, U]) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.cached {
		return fmt.Sprintf("Derived(%s uninitialized)", d.name)
	}
	return fmt.Sprintf("Derived(%s %v @v%d)", d.name, d.cache, d.lastSeen)
}

// recomputeLocked evaluates the transformation and restamps the cache.
// The source is marked read-borrowed by this goroutine for the duration so
// that mutation from inside fn fails fast instead of corrupting the cache.
// Writers on other goroutines are not blocked; the cache is stamped with
// the version snapshotted before fn ran, so a concurrent write leaves the
// projection stale and the next Get recomputes.
func (d *Derived[T, U]) recomputeLocked(value T, version uint64) {
	gid := d.src.beginDerive()
	defer d.src.endDerive(gid)

	start := time.Now()
	result := d.fn(value)

	d.cache = result
	d.cached = true
	d.lastSeen = version

	if d.obs != nil {
		d.obs.OnRecompute(d.name, time.Since(start))
	}
}
