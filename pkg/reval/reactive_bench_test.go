package reval

import "testing"

func BenchmarkSignalGet(b *testing.B) {
	s := NewSignal(1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Get()
	}
}

func BenchmarkSignalSet(b *testing.B) {
	s := NewSignal(0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Set(i)
	}
}

func BenchmarkSignalMut(b *testing.B) {
	s := NewSignal(0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := s.Mut()
		*m.Value() = i
		m.Release()
	}
}

func BenchmarkDerivedCachedRead(b *testing.B) {
	s := NewSignal(1)
	d := Derive(s, func(n int) int { return n * 2 })
	_ = d.Get()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = d.Get()
	}
}

func BenchmarkDerivedRecompute(b *testing.B) {
	s := NewSignal(0)
	d := Derive(s, func(n int) int { return n * 2 })
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Set(i)
		_ = d.Get()
	}
}
