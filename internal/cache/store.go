package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store is a file-backed key-value cache. Every entry carries the wall-clock
// time it was written; readers decide how stale is too stale. Writes replace
// the whole entry, never parts of it.
type Store struct {
	dir string
}

type envelope struct {
	Timestamp time.Time       `json:"timestamp"`
	Value     json.RawMessage `json:"value"`
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Put stores value under key, stamped with the current time.
func (s *Store) Put(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	env, err := json.Marshal(envelope{Timestamp: time.Now().UTC(), Value: raw})
	if err != nil {
		return fmt.Errorf("marshal cache envelope: %w", err)
	}
	if err := os.WriteFile(s.path(key), env, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Get loads the entry for key into out. It returns false without error when
// the entry is missing or older than maxAge; a maxAge of zero accepts any age.
func (s *Store) Get(key string, maxAge time.Duration, out any) (bool, error) {
	raw, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read cache entry: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// A corrupt entry behaves like a miss; the caller will overwrite it.
		return false, nil
	}
	if maxAge > 0 && time.Since(env.Timestamp) > maxAge {
		return false, nil
	}
	if err := json.Unmarshal(env.Value, out); err != nil {
		return false, fmt.Errorf("decode cache value: %w", err)
	}
	return true, nil
}

// Delete removes the entry for key. Missing entries are not an error.
func (s *Store) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove cache entry: %w", err)
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, sanitizeKey(key)+".json")
}

func sanitizeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}
