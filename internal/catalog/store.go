// Package catalog is the durable metadata store for notes. It is the single
// source of truth for which notes exist; the filesystem only holds bytes.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/study-notes/backend/internal/catalog/migrations"
	"github.com/study-notes/backend/internal/models"
)

// ErrNotFound is returned when a note id has no catalog entry.
var ErrNotFound = errors.New("note not found")

// Store is a SQLite-backed note catalog.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the catalog database at dbPath and runs any
// pending migrations.
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	// WAL mode for concurrent readers during uploads.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Insert records a new note and returns its assigned id.
func (s *Store) Insert(ctx context.Context, note *models.Note) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (filename, original_filename, subject, upload_date, file_size)
		VALUES (?, ?, ?, ?, ?)`,
		note.StorageFilename,
		note.OriginalFilename,
		note.Subject,
		note.UploadedAt.UnixNano(),
		note.ByteSize,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting note: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading assigned id: %w", err)
	}

	return id, nil
}

// ListBySubject returns all notes for a subject, newest first. The id acts
// as a tiebreak so ordering stays total within one timestamp.
func (s *Store) ListBySubject(ctx context.Context, subjectKey string) ([]models.Note, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, original_filename, subject, upload_date, file_size
		FROM notes
		WHERE subject = ?
		ORDER BY upload_date DESC, id DESC`,
		subjectKey,
	)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

// ListAll returns every note in the catalog, newest first.
func (s *Store) ListAll(ctx context.Context) ([]models.Note, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, original_filename, subject, upload_date, file_size
		FROM notes
		ORDER BY upload_date DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows)
}

// GetByID returns the note with the given id, or ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, filename, original_filename, subject, upload_date, file_size
		FROM notes
		WHERE id = ?`,
		id,
	)

	note, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting note %d: %w", id, err)
	}

	return note, nil
}

// CountBySubject returns the number of notes filed under a subject.
func (s *Store) CountBySubject(ctx context.Context, subjectKey string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notes WHERE subject = ?", subjectKey,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting notes for %s: %w", subjectKey, err)
	}

	return count, nil
}

// CountTotal returns the total number of notes in the catalog.
func (s *Store) CountTotal(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notes").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting notes: %w", err)
	}

	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*models.Note, error) {
	var note models.Note
	var uploadNanos int64
	err := row.Scan(
		&note.ID,
		&note.StorageFilename,
		&note.OriginalFilename,
		&note.Subject,
		&uploadNanos,
		&note.ByteSize,
	)
	if err != nil {
		return nil, err
	}

	note.UploadedAt = time.Unix(0, uploadNanos).UTC()
	return &note, nil
}

func scanNotes(rows *sql.Rows) ([]models.Note, error) {
	notes := []models.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning note row: %w", err)
		}
		notes = append(notes, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating note rows: %w", err)
	}

	return notes, nil
}

// migrate runs all pending migrations from fsys.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		version, err := migrationVersion(name)
		if err != nil {
			return err
		}
		if version <= currentVersion {
			continue
		}

		script, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(script)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// migrationVersion extracts the numeric prefix of a migration filename,
// e.g. "0001_create_notes.up.sql" -> 1.
func migrationVersion(name string) (int, error) {
	idx := strings.Index(name, "_")
	if idx <= 0 {
		return 0, fmt.Errorf("malformed migration name: %s", name)
	}

	var version int
	if _, err := fmt.Sscanf(name[:idx], "%d", &version); err != nil {
		return 0, fmt.Errorf("malformed migration version in %s: %w", name, err)
	}

	return version, nil
}
