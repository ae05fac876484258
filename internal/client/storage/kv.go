// Package storage provides on-device persistence for local mode: a small
// key/value store (JSON file or SQLite) and the credential store built on it.
package storage

import (
	"context"
	"fmt"
)

// KV is device-persistent key/value storage.
type KV interface {
	// Get returns the value under key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Open returns the KV implementation for driver ("file" or "sqlite") at path.
func Open(driver, path string) (KV, error) {
	switch driver {
	case "file":
		return OpenFile(path)
	case "sqlite":
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
