package notes

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/study-notes/backend/internal/normalize"
	"github.com/study-notes/backend/internal/storage"
	"github.com/study-notes/backend/internal/subject"
	"github.com/study-notes/backend/internal/testutil"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func newTestService(t *testing.T) (*Service, *testutil.MemoryCatalog, *testutil.MemoryFileStore) {
	t.Helper()

	registry := subject.Default()
	cat := testutil.NewMemoryCatalog()
	files := testutil.NewMemoryFileStore()
	svc := NewService(registry, storage.NewAllocator(registry), normalize.New(), files, cat)
	return svc, cat, files
}

func TestUploadSuccess(t *testing.T) {
	svc, cat, files := newTestService(t)

	note, err := svc.Upload(context.Background(), pngBytes(t, 100, 80), "My Notes.png", "math")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if note.ID == 0 {
		t.Error("expected assigned id")
	}
	if note.Subject != "math" {
		t.Errorf("subject = %q", note.Subject)
	}
	if note.OriginalFilename != "My_Notes.png" {
		t.Errorf("original filename = %q, want My_Notes.png", note.OriginalFilename)
	}

	// The backing file must exist and its size must match the record.
	path := files.Path(note.Subject, note.StorageFilename)
	data, ok := files.Bytes(path)
	if !ok {
		t.Fatal("no file written for successful upload")
	}
	if int64(len(data)) != note.ByteSize {
		t.Errorf("byte size %d does not match stored file %d", note.ByteSize, len(data))
	}
	if cat.Len() != 1 {
		t.Errorf("catalog has %d notes, want 1", cat.Len())
	}
}

func TestUploadValidation(t *testing.T) {
	tests := []struct {
		name     string
		raw      []byte
		filename string
		subject  string
		wantErr  error
	}{
		{"no bytes", nil, "a.png", "math", ErrMissingFile},
		{"no filename", []byte("x"), "", "math", ErrMissingFile},
		{"no subject", []byte("x"), "a.png", "", ErrMissingSubject},
		{"unknown subject", []byte("x"), "a.png", "chemistry", ErrInvalidSubject},
		{"bad extension", []byte("x"), "a.txt", "math", ErrInvalidType},
		{"no extension", []byte("x"), "notes", "math", ErrInvalidType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, cat, _ := newTestService(t)

			_, err := svc.Upload(context.Background(), tt.raw, tt.filename, tt.subject)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if cat.Len() != 0 {
				t.Errorf("validation failure created %d catalog entries", cat.Len())
			}
		})
	}
}

func TestUploadProcessingFailureLeavesNoArtifacts(t *testing.T) {
	svc, cat, files := newTestService(t)

	_, err := svc.Upload(context.Background(), []byte("not an image"), "a.png", "math")
	if !errors.Is(err, ErrProcessing) {
		t.Fatalf("expected ErrProcessing, got %v", err)
	}

	if cat.Len() != 0 {
		t.Error("processing failure created a catalog entry")
	}
	if files.Exists(files.Path("math", "a.png")) {
		t.Error("processing failure wrote a file")
	}
}

func TestUploadStorageFailureCreatesNoCatalogEntry(t *testing.T) {
	svc, cat, files := newTestService(t)
	files.FailWrite = errors.New("disk full")

	_, err := svc.Upload(context.Background(), pngBytes(t, 10, 10), "a.png", "math")
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if cat.Len() != 0 {
		t.Error("storage failure created a catalog entry")
	}
}

func TestUploadPersistenceFailureLeavesOrphanFile(t *testing.T) {
	svc, cat, _ := newTestService(t)
	cat.FailInsert = errors.New("constraint violation")

	_, err := svc.Upload(context.Background(), pngBytes(t, 10, 10), "a.png", "math")
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}

	// The written file is intentionally left behind; no row references it.
	if cat.Len() != 0 {
		t.Error("failed insert left a catalog entry")
	}
}

func TestListGallery(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.ListGallery(ctx, "chemistry"); !errors.Is(err, ErrInvalidSubject) {
		t.Errorf("expected ErrInvalidSubject, got %v", err)
	}

	list, err := svc.ListGallery(ctx, "math")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty gallery, got %d", len(list))
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.Upload(ctx, pngBytes(t, 10, 10), "a.png", "math"); err != nil {
			t.Fatalf("upload failed: %v", err)
		}
	}

	list, err = svc.ListGallery(ctx, "math")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 notes, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].UploadedAt.After(list[i-1].UploadedAt) {
			t.Error("gallery not in newest-first order")
		}
	}
}

func TestResolveDownload(t *testing.T) {
	svc, _, files := newTestService(t)
	ctx := context.Background()

	t.Run("unknown id", func(t *testing.T) {
		_, _, err := svc.ResolveDownload(ctx, 42)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	note, err := svc.Upload(ctx, pngBytes(t, 10, 10), "a.png", "math")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	t.Run("resolves existing note", func(t *testing.T) {
		got, path, err := svc.ResolveDownload(ctx, note.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != note.ID {
			t.Errorf("id = %d, want %d", got.ID, note.ID)
		}
		if !files.Exists(path) {
			t.Error("resolved path does not exist")
		}
	})

	t.Run("catalog and filesystem diverged", func(t *testing.T) {
		files.Delete(files.Path(note.Subject, note.StorageFilename))

		_, _, err := svc.ResolveDownload(ctx, note.ID)
		if !errors.Is(err, ErrFileMissing) {
			t.Errorf("expected ErrFileMissing, got %v", err)
		}
	})
}

func TestStats(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, subjectKey := range []string{"math", "math", "physics"} {
		if _, err := svc.Upload(ctx, pngBytes(t, 10, 10), "a.png", subjectKey); err != nil {
			t.Fatalf("upload failed: %v", err)
		}
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalNotes != 3 {
		t.Errorf("total = %d, want 3", stats.TotalNotes)
	}
	if len(stats.SubjectStats) != 5 {
		t.Errorf("expected all 5 subjects present, got %d", len(stats.SubjectStats))
	}

	sum := 0
	for _, count := range stats.SubjectStats {
		sum += count
	}
	if sum != stats.TotalNotes {
		t.Errorf("subject counts sum to %d, total is %d", sum, stats.TotalNotes)
	}

	// Stats must be stable with no intervening uploads.
	again, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.TotalNotes != stats.TotalNotes {
		t.Error("repeated stats call changed totals")
	}
	for key, count := range stats.SubjectStats {
		if again.SubjectStats[key] != count {
			t.Errorf("repeated stats call changed count for %s", key)
		}
	}
}

func TestUploadTimestampsAreUTC(t *testing.T) {
	svc, _, _ := newTestService(t)
	svc.now = func() time.Time {
		return time.Date(2025, 3, 14, 15, 9, 26, 0, time.FixedZone("X", 3600))
	}

	note, err := svc.Upload(context.Background(), pngBytes(t, 10, 10), "a.png", "math")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if note.UploadedAt.Location() != time.UTC {
		t.Errorf("uploadedAt stored in %v, want UTC", note.UploadedAt.Location())
	}
}
