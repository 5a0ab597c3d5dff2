// Package blob implements the filesystem key→bytes store backing uploads and
// generated documents. Keys are flat file names of the form
// "{uuid}-{sanitized name}"; directories are created lazily on first write.
package blob

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidName is returned when a key would escape the store directory.
var ErrInvalidName = errors.New("invalid blob name")

const maxNameLen = 120

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// Store keeps blobs as flat files under a single directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is not created until
// the first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Resolve maps a key to an absolute path inside the store directory. Keys
// containing path separators or traversal sequences are rejected.
func (s *Store) Resolve(name string) (string, error) {
	if name == "" || name == "." || name == ".." {
		return "", ErrInvalidName
	}
	if name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return "", ErrInvalidName
	}
	path := filepath.Join(s.dir, name)
	if filepath.Dir(path) != filepath.Clean(s.dir) {
		return "", ErrInvalidName
	}
	return path, nil
}

// Put writes data under the given key, creating the store directory on demand.
func (s *Store) Put(name string, data []byte) error {
	path, err := s.Resolve(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create blob directory %s: %w", s.dir, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write blob %s: %w", name, err)
	}
	return nil
}

// Get reads the blob stored under the given key.
func (s *Store) Get(name string) ([]byte, error) {
	path, err := s.Resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", name, err)
	}
	return data, nil
}

// Exists reports whether a blob is present under the given key.
func (s *Store) Exists(name string) bool {
	path, err := s.Resolve(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// SafeName rewrites a user-supplied file name into a filesystem-safe form:
// every character outside [A-Za-z0-9._-] becomes '_', the result is capped at
// 120 characters, and an empty result falls back to fallback.
func SafeName(name, fallback string) string {
	cleaned := unsafeNameChars.ReplaceAllString(filepath.Base(strings.TrimSpace(name)), "_")
	cleaned = strings.Trim(cleaned, ".")
	if len(cleaned) > maxNameLen {
		cleaned = cleaned[:maxNameLen]
	}
	if cleaned == "" {
		return fallback
	}
	return cleaned
}

// NewKey builds a storage key by prefixing a freshly generated id to the
// sanitized name.
func NewKey(name string) string {
	return uuid.New().String() + "-" + SafeName(name, "file")
}

// StripIDPrefix removes the "{uuid}-" prefix from a storage key, returning the
// original sanitized name. Keys without the prefix are returned unchanged.
func StripIDPrefix(name string) string {
	if len(name) > 37 && name[36] == '-' {
		if _, err := uuid.Parse(name[:36]); err == nil {
			return name[37:]
		}
	}
	return name
}
