package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

const (
	slotExt      = ".json"
	lockExt      = ".lock"
	lockInterval = 25 * time.Millisecond
)

// FileStore keeps each slot in Dir/<key>.json. Reads and writes hold an
// exclusive flock on Dir/<key>.lock so a running TUI and a one-shot command
// never observe a half-written slot.
type FileStore struct {
	Dir string
}

// compile-time check
var _ Store = (*FileStore)(nil)

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

func (s *FileStore) SlotPath(key string) string {
	return filepath.Join(s.Dir, key+slotExt)
}

func (s *FileStore) lock(ctx context.Context, key string) (*flock.Flock, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", s.Dir, err)
	}
	fl := flock.New(filepath.Join(s.Dir, key+lockExt))
	ok, err := fl.TryLockContext(ctx, lockInterval)
	if err != nil {
		return nil, fmt.Errorf("locking slot %s: %w", key, err)
	}
	if !ok {
		return nil, fmt.Errorf("locking slot %s: lock not acquired", key)
	}
	return fl, nil
}

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if _, err := os.Stat(s.SlotPath(key)); errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	fl, err := s.lock(ctx, key)
	if err != nil {
		return nil, err
	}
	defer fl.Unlock()

	data, err := os.ReadFile(s.SlotPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading slot %s: %w", key, err)
	}
	return data, nil
}

func (s *FileStore) Set(ctx context.Context, key string, data []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	fl, err := s.lock(ctx, key)
	if err != nil {
		return err
	}
	defer fl.Unlock()

	tmp, err := os.CreateTemp(s.Dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing slot %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("syncing slot %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing slot %s: %w", key, err)
	}
	if err := os.Rename(tmpPath, s.SlotPath(key)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing slot %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	fl, err := s.lock(ctx, key)
	if err != nil {
		return err
	}
	defer fl.Unlock()

	if err := os.Remove(s.SlotPath(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing slot %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Keys(_ context.Context) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.Dir, "*"+slotExt))
	if err != nil {
		return nil, fmt.Errorf("globbing %s: %w", s.Dir, err)
	}
	keys := make([]string, 0, len(matches))
	for _, m := range matches {
		keys = append(keys, strings.TrimSuffix(filepath.Base(m), slotExt))
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *FileStore) Close() error { return nil }
