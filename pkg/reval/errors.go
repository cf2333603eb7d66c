package reval

import "errors"

// ErrReentrantMutation is the panic value raised when a transformation
// function attempts mutable access to the signal it is being derived from.
// The check is scoped to the deriving goroutine: writers elsewhere proceed
// and only make the in-flight result stale.
var ErrReentrantMutation = errors.New("reval: mutable access to signal during its own derivation")

// ErrMutHeld is the panic value raised when a goroutine requests a mutable
// handle on a signal it already holds one for, which would otherwise
// deadlock. Handles requested from other goroutines block instead.
var ErrMutHeld = errors.New("reval: mutable handle already outstanding")

// ErrMutReleased is the panic value raised when a released mutable handle
// is dereferenced. Once Release has run, the handle no longer guards the
// value and the pointer it handed out must not be used.
var ErrMutReleased = errors.New("reval: use of released mutable handle")

// ErrTypeMismatch is returned by SetAny when the supplied value's dynamic
// type does not match the signal's value type.
var ErrTypeMismatch = errors.New("reval: value type mismatch")
