package testsupport

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"meetscan/internal/config"
)

// SeedBook describes one meeting record inserted into a test library.
type SeedBook struct {
	ID     int64
	Title  string
	Path   string
	Author string
	Tags   []string
	// Text is indexed in the full-text database when non-empty.
	Text string
	// PDFName registers a PDF format row and creates the file with PDFBytes.
	PDFName  string
	PDFBytes []byte
}

// SeedLibrary creates Calibre-shaped metadata and full-text databases under
// the config's library paths and populates them with the given books.
func SeedLibrary(t testing.TB, cfg *config.Config, books []SeedBook) {
	t.Helper()

	if err := os.MkdirAll(cfg.Library.Root, 0o755); err != nil {
		t.Fatalf("create library root: %v", err)
	}

	metadata := openDB(t, cfg.MetadataDBPath())
	defer metadata.Close()
	execAll(t, metadata,
		`CREATE TABLE books (id INTEGER PRIMARY KEY, title TEXT NOT NULL, path TEXT NOT NULL DEFAULT '')`,
		`CREATE TABLE tags (id INTEGER PRIMARY KEY, name TEXT NOT NULL UNIQUE)`,
		`CREATE TABLE books_tags_link (id INTEGER PRIMARY KEY, book INTEGER NOT NULL, tag INTEGER NOT NULL)`,
		`CREATE TABLE authors (id INTEGER PRIMARY KEY, name TEXT NOT NULL UNIQUE)`,
		`CREATE TABLE books_authors_link (id INTEGER PRIMARY KEY, book INTEGER NOT NULL, author INTEGER NOT NULL)`,
		`CREATE TABLE data (id INTEGER PRIMARY KEY, book INTEGER NOT NULL, format TEXT NOT NULL, name TEXT NOT NULL)`,
	)

	fulltext := openDB(t, cfg.FulltextDBPath())
	defer fulltext.Close()
	execAll(t, fulltext,
		`CREATE TABLE books_text (id INTEGER PRIMARY KEY, book INTEGER NOT NULL, searchable_text TEXT, timestamp REAL NOT NULL DEFAULT 0)`,
	)

	for _, book := range books {
		insertBook(t, metadata, fulltext, cfg, book)
	}
}

func insertBook(t testing.TB, metadata, fulltext *sql.DB, cfg *config.Config, book SeedBook) {
	t.Helper()

	mustExec(t, metadata, `INSERT INTO books (id, title, path) VALUES (?, ?, ?)`, book.ID, book.Title, book.Path)

	for _, tag := range book.Tags {
		mustExec(t, metadata, `INSERT OR IGNORE INTO tags (name) VALUES (?)`, tag)
		mustExec(t, metadata,
			`INSERT INTO books_tags_link (book, tag) SELECT ?, id FROM tags WHERE name = ?`, book.ID, tag)
	}

	if book.Author != "" {
		mustExec(t, metadata, `INSERT OR IGNORE INTO authors (name) VALUES (?)`, book.Author)
		mustExec(t, metadata,
			`INSERT INTO books_authors_link (book, author) SELECT ?, id FROM authors WHERE name = ?`, book.ID, book.Author)
	}

	if book.Text != "" {
		mustExec(t, fulltext,
			`INSERT INTO books_text (book, searchable_text, timestamp) VALUES (?, ?, 1)`, book.ID, book.Text)
	}

	if book.PDFName != "" {
		mustExec(t, metadata, `INSERT INTO data (book, format, name) VALUES (?, 'PDF', ?)`, book.ID, book.PDFName)
		dir := filepath.Join(cfg.Library.Root, book.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("create book dir: %v", err)
		}
		payload := book.PDFBytes
		if payload == nil {
			payload = []byte("%PDF-1.4\n")
		}
		if err := os.WriteFile(filepath.Join(dir, book.PDFName+".pdf"), payload, 0o644); err != nil {
			t.Fatalf("write pdf fixture: %v", err)
		}
	}
}

func openDB(t testing.TB, path string) *sql.DB {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create db dir: %v", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	return db
}

func execAll(t testing.TB, db *sql.DB, statements ...string) {
	t.Helper()
	for _, stmt := range statements {
		mustExec(t, db, stmt)
	}
}

func mustExec(t testing.TB, db *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}
