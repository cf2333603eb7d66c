// Package reval provides pull-based reactive values.
//
// A Signal is a mutable container stamped with a monotonic version counter.
// A Derived value is a cached projection of exactly one Signal through a
// transformation function. Nothing is pushed on write: a Derived value
// compares version counters at read time and recomputes only when its
// source has moved past the version it last computed against.
//
// # Core Types
//
// Signal[T] is a versioned value container:
//
//	count := reval.NewSignal(0)
//	value := count.Get()   // Read (never bumps the version)
//	count.Set(5)           // Write (bumps the version)
//	count.Update(func(n int) int { return n + 1 })
//
// In-place mutation goes through a scoped handle whose release commits the
// change. Release is what bumps the version, so defer it:
//
//	m := count.Mut()
//	defer m.Release()
//	*m.Value() += 1
//
// Derived[T, U] is a lazily recomputed projection:
//
//	double := reval.Derive(count, func(n int) int { return n * 2 })
//	value := double.Get()  // Recomputes only if count changed since last Get
//
// # Staleness Model
//
// Acquiring a mutable handle counts as a change whether or not the value
// was actually modified: the engine over-invalidates rather than risk a
// stale cache. Callers that want equal-value writes suppressed can opt in
// with WithEquals, which applies to Set and Update only.
//
// Transformation functions are treated as pure. Side effects inside one are
// not replayed on cache hits, and mutating the source signal from inside
// its own transformation panics.
//
// # Lifetimes
//
// A Derived value holds a reference to its source, so the source stays
// reachable for as long as any projection over it does; there is no
// use-after-free mode. Disposal is the garbage collector's job.
//
// # Thread Safety
//
// Signals and derived values are safe for concurrent use: the version
// counter is atomic and the value is guarded by a read-write lock. Writers
// on other goroutines proceed normally while a recompute is in flight; the
// recompute simply goes stale and runs again on the next read. Only a
// mutation issued from the same call chain as the transformation panics.
// A goroutine may hold one mutable handle per signal at a time; handles
// requested from other goroutines block until release.
package reval
