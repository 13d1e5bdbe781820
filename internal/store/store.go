// Package store is the persistence channel for saved drawings: a key-value store
// addressed by a fixed key, where Put overwrites the value wholesale.
package store

import (
	"context"
	"fmt"

	"LocalPaint/internal/state"
)

// DefaultKey is the key a drawing is saved under.
const DefaultKey = "savedCanvas"

// Store persists opaque values by key.
type Store interface {
	// Get returns state.ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete succeeds when the key is already absent.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Options select and configure a driver.
type Options struct {
	Driver string // memory, file, sqlite or prefs
	Path   string // directory for file, database path for sqlite
	Prefs  Preferences
}

// Open returns the driver named by opts.Driver.
func Open(opts Options) (Store, error) {
	switch opts.Driver {
	case "", "memory":
		return NewMemory(), nil
	case "file":
		return NewFile(opts.Path)
	case "sqlite":
		return NewSQLite(opts.Path)
	case "prefs":
		if opts.Prefs == nil {
			return nil, fmt.Errorf("prefs store needs an application preferences handle")
		}
		return NewPrefs(opts.Prefs), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
}

func notFound(key string) error {
	return fmt.Errorf("key %q: %w", key, state.ErrNotFound)
}
