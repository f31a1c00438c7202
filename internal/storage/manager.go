package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store defines the interface for note file storage.
type Store interface {
	Write(subjectKey, name string, data []byte) (int64, error)
	Path(subjectKey, name string) string
	Exists(path string) bool
}

// LocalStore implements Store using the local filesystem, one directory per
// subject under the root.
type LocalStore struct {
	root string
}

// NewLocalStore creates a new LocalStore rooted at root.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating storage root: %w", err)
	}

	return &LocalStore{root: root}, nil
}

// Write stores data under <root>/<subject>/<name>, creating the subject
// directory as needed, and returns the on-disk size of the written file.
// The bytes land under a temporary name first and are renamed into place,
// so a crashed write never leaves a partial file at the final path.
func (s *LocalStore) Write(subjectKey, name string, data []byte) (int64, error) {
	dir := filepath.Join(s.root, subjectKey)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("creating subject directory: %w", err)
	}

	final := filepath.Join(dir, name)
	tmp := filepath.Join(dir, ".tmp-"+uuid.New().String())

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("writing file: %w", err)
	}

	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("placing file: %w", err)
	}

	// Size comes from the written file, not the in-memory buffer.
	info, err := os.Stat(final)
	if err != nil {
		return 0, fmt.Errorf("stat written file: %w", err)
	}

	return info.Size(), nil
}

// Path returns the absolute path a note file lives at.
func (s *LocalStore) Path(subjectKey, name string) string {
	return filepath.Join(s.root, subjectKey, name)
}

// Exists reports whether a regular file exists at path.
func (s *LocalStore) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
