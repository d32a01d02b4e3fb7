// Package session persists the client's bearer token and user record and
// caches them for the rest of the process.
package session

import (
	"context"
)

// Keys under which the session is persisted. They are written and cleared together.
const (
	KeyToken = "authToken"
	KeyUser  = "user"
)

// Store is the persistence behind a Manager. Implementations must make every
// entry passed to one Set call visible together.
type Store interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// GetMany reads keys in one consistent read. Absent keys are left out of
	// the result.
	GetMany(ctx context.Context, keys ...string) (map[string]string, error)
	Set(ctx context.Context, entries map[string]string) error
	// Clear removes keys. Missing keys are not an error.
	Clear(ctx context.Context, keys ...string) error
}

// ChangeNotifier is implemented by stores that can announce writes made by
// other processes.
type ChangeNotifier interface {
	Changes(ctx context.Context) (<-chan struct{}, error)
}

// Closer is implemented by stores holding connections.
type Closer interface {
	Close() error
}
