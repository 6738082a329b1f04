// Package localstore persists small client-side snapshots (cart, cached
// identity, credential token) as JSON files under a state directory. It is
// advisory caching only, never the system of record.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
)

// Well-known storage keys.
const (
	KeyCart  = "cart"
	KeyToken = "token"
	KeyUser  = "user"
)

// Store reads and writes keyed JSON snapshots.
type Store struct {
	dir    string
	logger *log.Logger
}

// New creates the state directory if needed.
func New(dir string, logger *log.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Get decodes the snapshot under key into v. A missing or malformed snapshot
// reports ok=false instead of an error: corruption degrades to absence.
func (s *Store) Get(key string, v interface{}) bool {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) && s.logger != nil {
			s.logger.Printf("read snapshot %q: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		if s.logger != nil {
			s.logger.Printf("discarding corrupt snapshot %q: %v", key, err)
		}
		return false
	}
	return true
}

// Put writes the snapshot atomically (temp file + rename) so a crash mid-write
// never leaves a truncated snapshot behind.
func (s *Store) Put(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode snapshot %q: %w", key, err)
	}
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %q: %w", key, err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return fmt.Errorf("replace snapshot %q: %w", key, err)
	}
	return nil
}

// Delete removes the snapshot under key; deleting an absent key is a no-op.
func (s *Store) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete snapshot %q: %w", key, err)
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
