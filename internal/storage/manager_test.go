// manager_test.go - Tests for the local file store
package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLocalStore(t *testing.T) {
	t.Run("creates root directory", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "uploads")

		if _, err := NewLocalStore(root); err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		if _, err := os.Stat(root); os.IsNotExist(err) {
			t.Error("expected root directory to be created")
		}
	})
}

func TestLocalStoreWrite(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	data := []byte("normalized image bytes")
	size, err := store.Write("math", "20250314_150926_notes.jpg", data)
	if err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}

	if size != int64(len(data)) {
		t.Errorf("size = %d, want %d", size, len(data))
	}

	path := store.Path("math", "20250314_150926_notes.jpg")
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("written bytes differ from input")
	}

	if !store.Exists(path) {
		t.Error("Exists reported false for written file")
	}

	// No temp files may survive a successful write.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("reading subject dir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".tmp-") {
			t.Errorf("leftover temp file %s", entry.Name())
		}
	}
}

func TestLocalStoreWriteCreatesSubjectDir(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	if _, err := store.Write("physics", "a.jpg", []byte("x")); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}
	// A second write into the same subject must be fine.
	if _, err := store.Write("physics", "b.jpg", []byte("y")); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}

	info, err := os.Stat(filepath.Join(root, "physics"))
	if err != nil || !info.IsDir() {
		t.Errorf("expected physics subject directory, err=%v", err)
	}
}

func TestLocalStoreExists(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	if store.Exists(store.Path("math", "missing.jpg")) {
		t.Error("Exists reported true for missing file")
	}
}
