package reval

// Typed wrappers for common signal value kinds.
//
// The wrappers install DefaultEquals, so a write that leaves the value
// unchanged (Add(0), SetTrue on an already-true signal, Append("")) does not
// move the version and keeps dependent projections fresh. Pass WithEquals to
// override the comparison, or WithEquals(nil) to restore bump-on-every-write.
// Helpers that compute a new value return it, saving the follow-up Get.

// IntSignal is a Signal[int] with counter helpers.
type IntSignal struct {
	*Signal[int]
}

// NewIntSignal creates an integer signal with equal-write suppression on.
func NewIntSignal(initial int, opts ...SignalOption[int]) *IntSignal {
	all := append([]SignalOption[int]{WithEquals(DefaultEquals[int])}, opts...)
	return &IntSignal{NewSignal(initial, all...)}
}

// Inc adds 1 and returns the new value.
func (s *IntSignal) Inc() int {
	return s.Add(1)
}

// Dec subtracts 1 and returns the new value.
func (s *IntSignal) Dec() int {
	return s.Add(-1)
}

// Add adds delta and returns the new value. Add(0) is version-neutral.
func (s *IntSignal) Add(delta int) int {
	var out int
	s.Update(func(n int) int {
		out = n + delta
		return out
	})
	return out
}

// Float64Signal is a Signal[float64] with gauge helpers.
type Float64Signal struct {
	*Signal[float64]
}

// NewFloat64Signal creates a float signal with equal-write suppression on.
func NewFloat64Signal(initial float64, opts ...SignalOption[float64]) *Float64Signal {
	all := append([]SignalOption[float64]{WithEquals(DefaultEquals[float64])}, opts...)
	return &Float64Signal{NewSignal(initial, all...)}
}

// Add adds delta and returns the new value.
func (s *Float64Signal) Add(delta float64) float64 {
	var out float64
	s.Update(func(v float64) float64 {
		out = v + delta
		return out
	})
	return out
}

// Scale multiplies by factor and returns the new value. Scaling by 1 is
// version-neutral.
func (s *Float64Signal) Scale(factor float64) float64 {
	var out float64
	s.Update(func(v float64) float64 {
		out = v * factor
		return out
	})
	return out
}

// BoolSignal is a Signal[bool] with flag helpers.
type BoolSignal struct {
	*Signal[bool]
}

// NewBoolSignal creates a boolean signal with equal-write suppression on.
func NewBoolSignal(initial bool, opts ...SignalOption[bool]) *BoolSignal {
	all := append([]SignalOption[bool]{WithEquals(DefaultEquals[bool])}, opts...)
	return &BoolSignal{NewSignal(initial, all...)}
}

// Toggle inverts the flag and returns the new state. Unlike SetTrue and
// SetFalse it always changes the value, so it always bumps the version.
func (s *BoolSignal) Toggle() bool {
	var out bool
	s.Update(func(b bool) bool {
		out = !b
		return out
	})
	return out
}

// SetTrue raises the flag; version-neutral when already true.
func (s *BoolSignal) SetTrue() {
	s.Set(true)
}

// SetFalse lowers the flag; version-neutral when already false.
func (s *BoolSignal) SetFalse() {
	s.Set(false)
}

// StringSignal is a Signal[string] with text helpers.
type StringSignal struct {
	*Signal[string]
}

// NewStringSignal creates a string signal with equal-write suppression on.
func NewStringSignal(initial string, opts ...SignalOption[string]) *StringSignal {
	all := append([]SignalOption[string]{WithEquals(DefaultEquals[string])}, opts...)
	return &StringSignal{NewSignal(initial, all...)}
}

// Append adds suffix to the end; version-neutral for the empty string.
func (s *StringSignal) Append(suffix string) {
	s.Update(func(v string) string { return v + suffix })
}

// Prepend adds prefix to the beginning; version-neutral for the empty string.
func (s *StringSignal) Prepend(prefix string) {
	s.Update(func(v string) string { return prefix + v })
}

// Clear empties the value; version-neutral when already empty.
func (s *StringSignal) Clear() {
	s.Set("")
}

// Len returns the length of the current value.
func (s *StringSignal) Len() int {
	return len(s.Get())
}
