package reval

import "time"

// Observer receives hooks from derived values. Implementations must be safe
// for concurrent use; the engine calls them while holding the projection's
// lock, so they should return quickly and must not read the projection back.
type Observer interface {
	// OnRecompute is called after the transformation ran, with the
	// projection's name and how long the computation took.
	OnRecompute(name string, d time.Duration)

	// OnCacheHit is called when Get returned the cache without
	// re-invoking the transformation.
	OnCacheHit(name string)
}

// ObserverFuncs adapts plain functions into an Observer. Nil fields are
// skipped.
type ObserverFuncs struct {
	Recompute func(name string, d time.Duration)
	CacheHit  func(name string)
}

// OnRecompute implements Observer.
func (o ObserverFuncs) OnRecompute(name string, d time.Duration) {
	if o.Recompute != nil {
		o.Recompute(name, d)
	}
}

// OnCacheHit implements Observer.
func (o ObserverFuncs) OnCacheHit(name string) {
	if o.CacheHit != nil {
		o.CacheHit(name)
	}
}
