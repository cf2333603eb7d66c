package reval

import (
	"encoding/json"
	"fmt"
)

// AnySignal is a type-erased view of a signal, used by persistence and
// generic tooling that cannot name the value type.
type AnySignal interface {
	// GetAny returns the current value as an interface{}.
	GetAny() any

	// SetAny sets the value from an interface{}.
	// Returns ErrTypeMismatch if the dynamic type doesn't match.
	SetAny(value any) error

	// Version returns the signal's current version.
	Version() uint64

	// MarshalJSON/UnmarshalJSON round-trip the contained value.
	json.Marshaler
	json.Unmarshaler
}

// GetAny returns the current value as an interface{}.
func (s *Signal[T]) GetAny() any {
	return s.Get()
}

// SetAny sets the value from an interface{}, bumping the version.
// Returns ErrTypeMismatch if value is not a T.
func (s *Signal[T]) SetAny(value any) error {
	v, ok := value.(T)
	if !ok {
		var zero T
		return fmt.Errorf("%w: have %T, want %T", ErrTypeMismatch, value, zero)
	}
	s.restore(v)
	return nil
}

// MarshalJSON encodes the current value.
func (s *Signal[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Get())
}

// UnmarshalJSON decodes into the value, bumping the version.
// Equality suppression does not apply: restoring always counts as a change.
func (s *Signal[T]) UnmarshalJSON(data []byte) error {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	s.restore(v)
	return nil
}

// restore writes the value unconditionally and bumps the version.
func (s *Signal[T]) restore(v T) {
	s.guardMutate()
	s.mu.Lock()
	s.value = v
	s.version.Add(1)
	s.mu.Unlock()
}

var _ AnySignal = (*Signal[int])(nil)
