package reval

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSignalBasic(t *testing.T) {
	count := NewSignal(0)

	// Initial value and version
	if count.Get() != 0 {
		t.Errorf("expected initial value 0, got %d", count.Get())
	}
	if count.Version() != 0 {
		t.Errorf("expected initial version 0, got %d", count.Version())
	}

	// Set value
	count.Set(5)
	if count.Get() != 5 {
		t.Errorf("expected value 5, got %d", count.Get())
	}
	if count.Version() != 1 {
		t.Errorf("expected version 1 after set, got %d", count.Version())
	}

	// Update value
	count.Update(func(n int) int { return n * 2 })
	if count.Get() != 10 {
		t.Errorf("expected value 10, got %d", count.Get())
	}
	if count.Version() != 2 {
		t.Errorf("expected version 2 after update, got %d", count.Version())
	}
}

func TestSignalGetDoesNotBumpVersion(t *testing.T) {
	count := NewSignal(7)

	for i := 0; i < 10; i++ {
		_ = count.Get()
	}
	if count.Version() != 0 {
		t.Errorf("reads must not bump version, got %d", count.Version())
	}
}

func TestSignalMutBumpsExactlyOnce(t *testing.T) {
	count := NewSignal(1)

	m := count.Mut()
	*m.Value() += 1
	*m.Value() += 1
	m.Release()

	if count.Get() != 3 {
		t.Errorf("expected value 3, got %d", count.Get())
	}
	if count.Version() != 1 {
		t.Errorf("expected one bump per handle, got version %d", count.Version())
	}

	// Release is idempotent
	m.Release()
	if count.Version() != 1 {
		t.Errorf("double release must not bump again, got version %d", count.Version())
	}
}

func TestSignalMutBumpsWithoutWrite(t *testing.T) {
	count := NewSignal(1)

	// Taking a handle counts as a change even if nothing is written.
	m := count.Mut()
	m.Release()

	if count.Version() != 1 {
		t.Errorf("expected version bump on release, got %d", count.Version())
	}
	if count.Get() != 1 {
		t.Errorf("value should be unchanged, got %d", count.Get())
	}
}

func TestSignalMutReleaseOnPanic(t *testing.T) {
	count := NewSignal(1)

	func() {
		defer func() { recover() }()
		m := count.Mut()
		defer m.Release()
		*m.Value() = 2
		panic("boom")
	}()

	if count.Version() != 1 {
		t.Errorf("release via defer must bump exactly once, got %d", count.Version())
	}
	if count.Get() != 2 {
		t.Errorf("expected committed value 2, got %d", count.Get())
	}
}

func TestSignalWith(t *testing.T) {
	count := NewSignal(1)

	count.With(func(n *int) { *n += 1 })

	if count.Get() != 2 {
		t.Errorf("expected value 2, got %d", count.Get())
	}
	if count.Version() != 1 {
		t.Errorf("expected version 1, got %d", count.Version())
	}
}

func TestSignalSecondMutPanics(t *testing.T) {
	count := NewSignal(1)
	m := count.Mut()
	defer m.Release()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on second Mut")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrMutHeld) {
			t.Errorf("expected ErrMutHeld, got %v", r)
		}
	}()
	count.Mut()
}

func TestSignalMutBlocksOtherGoroutines(t *testing.T) {
	count := NewSignal(1)
	m := count.Mut()

	written := make(chan struct{})
	go func() {
		count.Set(2)
		close(written)
	}()

	select {
	case <-written:
		t.Fatal("write completed while a mutable handle was outstanding")
	case <-time.After(20 * time.Millisecond):
	}

	m.Release()

	select {
	case <-written:
	case <-time.After(time.Second):
		t.Fatal("write should proceed once the handle is released")
	}

	if count.Get() != 2 {
		t.Errorf("expected 2, got %d", count.Get())
	}
	if count.Version() != 2 {
		t.Errorf("expected one bump per mutation, got version %d", count.Version())
	}
}

func TestSignalValueAfterReleasePanics(t *testing.T) {
	count := NewSignal(1)
	m := count.Mut()
	m.Release()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on use after release")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrMutReleased) {
			t.Errorf("expected ErrMutReleased, got %v", r)
		}
	}()
	_ = m.Value()
}

func TestSignalWithEqualsSuppressesSet(t *testing.T) {
	count := NewSignal(5, WithEquals(DefaultEquals[int]))

	count.Set(5)
	if count.Version() != 0 {
		t.Errorf("equal set should not bump version, got %d", count.Version())
	}

	count.Set(6)
	if count.Version() != 1 {
		t.Errorf("unequal set should bump version, got %d", count.Version())
	}

	count.Update(func(n int) int { return n })
	if count.Version() != 1 {
		t.Errorf("no-op update should not bump version, got %d", count.Version())
	}

	// Mut always bumps, equality does not apply.
	count.With(func(n *int) {})
	if count.Version() != 2 {
		t.Errorf("mutable handle must bump regardless of equality, got %d", count.Version())
	}
}

func TestSignalMonotonicVersion(t *testing.T) {
	count := NewSignal(0)
	last := count.Version()

	for i := 0; i < 100; i++ {
		switch i % 3 {
		case 0:
			count.Set(i)
		case 1:
			count.Update(func(n int) int { return n + 1 })
		case 2:
			count.With(func(n *int) { *n = i })
		}
		v := count.Version()
		if v <= last {
			t.Fatalf("version must strictly increase: %d after %d", v, last)
		}
		last = v
	}
}

func TestSignalString(t *testing.T) {
	count := NewSignal(42)
	count.Set(43)

	s := count.String()
	if !strings.Contains(s, "43") || !strings.Contains(s, "v1") {
		t.Errorf("unexpected String output %q", s)
	}
}

func TestSignalAnyAccess(t *testing.T) {
	count := NewSignal(1)

	if got := count.GetAny(); got != any(1) {
		t.Errorf("GetAny = %v, want 1", got)
	}

	if err := count.SetAny(9); err != nil {
		t.Fatalf("SetAny failed: %v", err)
	}
	if count.Get() != 9 {
		t.Errorf("expected 9 after SetAny, got %d", count.Get())
	}
	if count.Version() != 1 {
		t.Errorf("SetAny should bump version, got %d", count.Version())
	}

	err := count.SetAny("nope")
	if !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestSignalJSONRoundTrip(t *testing.T) {
	count := NewSignal(17)

	data, err := count.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != "17" {
		t.Errorf("unexpected encoding %s", data)
	}

	restored := NewSignal(0)
	if err := restored.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if restored.Get() != 17 {
		t.Errorf("expected restored value 17, got %d", restored.Get())
	}
	if restored.Version() != 1 {
		t.Errorf("restore should count as a change, got version %d", restored.Version())
	}
}
