// Package tokencache persists a single opaque authentication token.
package tokencache

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// Cache stores one token at a fixed path. The file content is the
// token text verbatim; no expiry or integrity metadata is kept.
type Cache struct {
	path string
}

// New creates a cache bound to the given file path.
func New(path string) *Cache {
	return &Cache{path: path}
}

// Path returns the cache file path.
func (c *Cache) Path() string {
	return c.path
}

// Load returns the cached token, or "" when the file is absent or
// unreadable. A missing cache is an expected state, never an error.
func (c *Cache) Load() (string, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return "", nil
	}
	return strings.TrimSpace(string(data)), nil
}

// Store overwrites the cached token. The token is written to a
// temporary file in the same directory and renamed into place, so a
// concurrent reader never observes a partial write.
func (c *Cache) Store(token string) error {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "create token cache directory")
	}

	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return errors.Wrap(err, "create temp token file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(token); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "write token")
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "chmod token file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "close token file")
	}

	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "replace token file")
	}
	return nil
}
