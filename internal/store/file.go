package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// FileStore persists blobs as JSON files in a data directory. It is the
// default backend: the service-side analogue of device-local storage.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed and returns a store
// rooted at it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	log.Info().Str("dir", dir).Msg("Using file blob store")
	return &FileStore{dir: dir}, nil
}

// path maps a blob key to a file path. Keys contain ':' separators,
// which are unfriendly on some filesystems.
func (s *FileStore) path(key string) string {
	name := strings.ReplaceAll(key, ":", "__") + ".json"
	return filepath.Join(s.dir, name)
}

// Load reads and decodes the blob file for key.
func (s *FileStore) Load(_ context.Context, key string, v any) (bool, error) {
	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return decode(key, raw, v), nil
}

// Save writes the blob atomically via a temp file and rename, so a crash
// mid-write never leaves a truncated blob behind.
func (s *FileStore) Save(_ context.Context, key string, v any) error {
	raw, err := encode(v)
	if err != nil {
		return err
	}

	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to commit blob %s: %w", key, err)
	}
	return nil
}

// Delete removes the blob file for key.
func (s *FileStore) Delete(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	return nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error { return nil }
