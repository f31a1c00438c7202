package storage

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/study-notes/backend/internal/subject"
)

// Allocation errors.
var (
	ErrInvalidSubject   = errors.New("invalid subject")
	ErrInvalidExtension = errors.New("invalid file extension")
)

// AllowedExtensions is the upload extension allow-list (lowercase, no dot).
var AllowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"bmp":  true,
}

// Allocator produces collision-resistant storage filenames from
// user-supplied names. Storage names are prefixed with the wall-clock time
// at second granularity; two uploads of the same name within the same second
// to the same subject collide, an accepted limitation.
type Allocator struct {
	registry *subject.Registry
	now      func() time.Time
}

// NewAllocator creates an Allocator validating against the given registry.
func NewAllocator(registry *subject.Registry) *Allocator {
	return &Allocator{
		registry: registry,
		now:      time.Now,
	}
}

// Allocate validates originalName and subjectKey and returns the storage
// name plus the sanitized original name.
func (a *Allocator) Allocate(originalName, subjectKey string) (storageName, sanitized string, err error) {
	if !a.registry.Valid(subjectKey) {
		return "", "", ErrInvalidSubject
	}

	sanitized = SanitizeFilename(originalName)
	if !AllowedExtension(sanitized) {
		return "", "", ErrInvalidExtension
	}

	storageName = a.now().Format("20060102_150405_") + sanitized
	return storageName, sanitized, nil
}

// AllowedExtension reports whether name carries an allow-listed extension.
func AllowedExtension(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return false
	}
	return AllowedExtensions[ext]
}

// SanitizeFilename reduces a user-supplied name to something safe as a bare
// filename on any filesystem: path components are dropped, anything outside
// [A-Za-z0-9._-] becomes an underscore, and leading dots are trimmed so the
// result can never be hidden or relative.
func SanitizeFilename(name string) string {
	// Drop any path components, tolerating either separator style.
	name = strings.ReplaceAll(name, "\\", "/")
	name = name[strings.LastIndex(name, "/")+1:]

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	return strings.TrimLeft(b.String(), ".")
}
