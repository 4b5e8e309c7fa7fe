// Package cache persists the identifiers of already-notified posts. Each
// scraper owns one newline-delimited file under the store directory; a
// write replaces the whole file, never appends.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const dirPerm = 0o755

// Store is a file-backed identifier cache. One Store is shared by all
// scrapers; each scraper only ever touches its own entry, so no locking
// is needed across cycles.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory is created lazily
// on first access.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Read returns the persisted identifier list for the named scraper, in
// stored order. A missing file yields an empty list.
func (s *Store) Read(name string) ([]string, error) {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache %s: %w", name, err)
	}

	var ids []string
	for _, line := range strings.Split(string(data), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids, nil
}

// Write atomically replaces the persisted list for the named scraper with
// the given identifiers, preserving their order.
func (s *Store) Write(name string, ids []string) error {
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, s.fileName(name)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp cache %s: %w", name, err)
	}

	content := strings.Join(ids, "\n")
	if _, err = tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache %s: %w", name, err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close cache %s: %w", name, err)
	}

	if err = os.Rename(tmp.Name(), s.path(name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace cache %s: %w", name, err)
	}
	return nil
}

// Clear resets the persisted list for the named scraper to empty.
func (s *Store) Clear(name string) error {
	return s.Write(name, nil)
}

// fileName maps a scraper name onto a flat file name. Separators are
// stripped so a name can never escape the store directory; the temp-file
// pattern uses the same name, since CreateTemp rejects separators too.
func (s *Store) fileName(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '-'
		}
		return r
	}, name)
}

// path returns the backing file for a scraper name.
func (s *Store) path(name string) string {
	return filepath.Join(s.dir, s.fileName(name))
}
