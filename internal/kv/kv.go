// Package kv provides named key-value slots that hold a serialized list.
// A slot is written in full on every save; backends differ only in where the
// bytes live.
package kv

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
)

var ErrNotFound = errors.New("key not found")

type Store interface {
	// Get returns the slot contents or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the slot contents.
	Set(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	// Keys lists existing slots in lexical order.
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)

// ValidateKey checks that key is usable as a slot name on every backend.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("invalid list name %q: use letters, digits, '.', '_' or '-' (max 64 chars)", key)
	}
	return nil
}

// Open returns the backend named by backend rooted in dataDir.
func Open(ctx context.Context, backend, dataDir string) (Store, error) {
	switch backend {
	case "", BackendFile:
		return NewFileStore(filepath.Join(dataDir, "lists")), nil
	case BackendSQLite:
		return OpenSQLite(ctx, filepath.Join(dataDir, "todomaster.db"))
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q: must be one of file, sqlite, memory", backend)
	}
}
