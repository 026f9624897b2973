package core

import "context"

// Store defines the contract for persisting the two collections.
// Adhering to this interface keeps Collection State independent of the
// underlying storage mechanism (SQLite, flat files, memory).
type Store interface {
	// LoadAll returns both collections.
	LoadAll(ctx context.Context) (Snapshot, error)

	// SaveAll replaces every collection selected by p with the given records.
	// Records absent from the new collection are deleted.
	SaveAll(ctx context.Context, p Partial) error
}

// Backend is a Store that needs explicit setup and reports its name.
type Backend interface {
	Store

	// Initialize ensures the storage is ready (open database, create directories, migrate schema).
	Initialize(ctx context.Context) error

	// Name identifies the backend in logs and status output.
	Name() string
}

// Prober is a Backend that can check it still answers once opened.
type Prober interface {
	Probe(ctx context.Context) error
}

// KV is the flat key-value slot store used for preferences.
type KV interface {
	// Get returns the value stored under key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// Degradable is implemented by stores that can silently switch to a lesser
// backend. Degraded reports whether that switch has happened.
type Degradable interface {
	Degraded() bool
}
