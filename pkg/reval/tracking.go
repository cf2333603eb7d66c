package reval

import (
	"runtime"
	"sync/atomic"
)

// idCounter issues identifiers for signals and derived values.
var idCounter atomic.Uint64

// nextID returns a process-unique identifier, starting at 1. IDs are never
// reused, so they double as stable default names for derived values.
func nextID() uint64 {
	return idCounter.Add(1)
}

// goroutineID extracts the current goroutine's id from its stack header,
// which has the form "goroutine <id> [...]". The id is used only to detect
// mutation issued from inside a derivation on the same goroutine; it never
// leaves the package.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := 10; i < n; i++ { // skip "goroutine "
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}
