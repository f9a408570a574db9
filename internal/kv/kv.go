// Package kv provides the durable key-value substrate behind session
// persistence. Callers program against Store so the backend can be swapped
// without touching the orchestration layer.
package kv

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when no value exists for a key.
var ErrNotFound = errors.New("kv: key not found")

// Store is a minimal durable key-value store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names a Store implementation.
type Backend string

// Supported backends.
const (
	BackendSQLite Backend = "sqlite"
	BackendBadger Backend = "badger"
)

// Open opens the named backend rooted at path. SQLite treats path as a
// database file, Badger as a directory.
func Open(backend Backend, path string) (Store, error) {
	switch backend {
	case BackendSQLite, "":
		return OpenSQLite(path)
	case BackendBadger:
		return OpenBadger(BadgerConfig{Path: path, SyncWrites: true})
	}
	return nil, fmt.Errorf("unknown storage backend %q", string(backend))
}
