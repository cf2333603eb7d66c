// Package persist snapshots named signals to pluggable storage backends.
//
// A Registry maps stable keys to signals. Snapshot serializes every
// registered signal's current value into a versioned JSON envelope;
// Restore writes the values back, bumping each signal's version so that
// derived values recompute on their next read.
//
//	registry := persist.NewRegistry()
//	registry.Register("counter", counter)
//
//	store := persist.NewMemoryStore()
//	defer store.Close()
//
//	if err := registry.SaveTo(ctx, store, "checkpoint", time.Hour); err != nil { ... }
//	if err := registry.LoadFrom(ctx, store, "checkpoint"); err != nil { ... }
//
// Backends: MemoryStore for single-process use, SQLStore for any
// database/sql driver, S3Store for object storage.
package persist
