package reval

// SignalOption is a functional option for configuring signals.
type SignalOption[T any] func(*Signal[T])

// WithEquals configures an equality function used to suppress the version
// bump when Set or Update writes a value equal to the current one. This is
// an opt-in optimization: without it every write bumps the version, and
// mutable handles always bump regardless.
//
// Example:
//
//	count := reval.NewSignal(0, reval.WithEquals(reval.DefaultEquals[int]))
//	count.Set(0) // no version bump, dependents stay fresh
func WithEquals[T any](fn func(T, T) bool) SignalOption[T] {
	return func(s *Signal[T]) {
		s.equal = fn
	}
}

// derivedConfig holds configuration for derived values.
type derivedConfig struct {
	name     string
	observer Observer
}

// DerivedOption is a functional option for configuring derived values.
type DerivedOption func(*derivedConfig)

// WithName sets the projection's name, used in observer callbacks and
// String output. Defaults to "derived-<id>".
func WithName(name string) DerivedOption {
	return func(c *derivedConfig) {
		c.name = name
	}
}

// WithObserver attaches an observer that is told about recomputes and
// cache hits.
func WithObserver(obs Observer) DerivedOption {
	return func(c *derivedConfig) {
		c.observer = obs
	}
}

// applyDerivedOptions applies the given options and returns the resulting config.
func applyDerivedOptions(opts []DerivedOption) derivedConfig {
	var cfg derivedConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
