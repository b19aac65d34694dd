package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"meetscan/internal/meetings"
)

// Store provides read-only access to the library databases.
type Store struct {
	metadata *sql.DB
	fulltext *sql.DB
	root     string
}

// Open connects to the metadata database and, when present, the full-text
// index database. A missing full-text database is not an error; lookups
// simply report no text.
func Open(root, metadataPath, fulltextPath string) (*Store, error) {
	if _, err := os.Stat(metadataPath); err != nil {
		return nil, fmt.Errorf("library metadata database: %w", err)
	}
	metadata, err := openReadOnly(metadataPath)
	if err != nil {
		return nil, fmt.Errorf("open metadata database: %w", err)
	}

	store := &Store{metadata: metadata, root: root}
	if _, err := os.Stat(fulltextPath); err == nil {
		fulltext, err := openReadOnly(fulltextPath)
		if err != nil {
			_ = metadata.Close()
			return nil, fmt.Errorf("open full-text database: %w", err)
		}
		store.fulltext = fulltext
	}
	return store, nil
}

func openReadOnly(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA query_only = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	return db, nil
}

// Close closes the underlying database connections.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.metadata != nil {
		errs = append(errs, s.metadata.Close())
	}
	if s.fulltext != nil {
		errs = append(errs, s.fulltext.Close())
	}
	return errors.Join(errs...)
}

// MeetingTags returns one row per (book, matching tag) pairing. The author
// filter is a case-sensitive exact match; an empty author disables it.
func (s *Store) MeetingTags(ctx context.Context, author string, tagPrefixes []string) ([]meetings.TagRow, error) {
	if len(tagPrefixes) == 0 {
		return nil, errors.New("at least one tag prefix is required")
	}

	likeClauses := make([]string, 0, len(tagPrefixes))
	params := make([]any, 0, len(tagPrefixes)+1)
	for _, prefix := range tagPrefixes {
		likeClauses = append(likeClauses, "t.name LIKE ? ESCAPE '\\'")
		params = append(params, escapeLike(prefix)+"%")
	}
	authorClause := ""
	if author != "" {
		authorClause = "AND a.name = ?"
		params = append(params, author)
	}

	query := fmt.Sprintf(`
        SELECT DISTINCT b.id, b.title, b.path, t.name
        FROM books b
        JOIN books_tags_link btl ON b.id = btl.book
        JOIN tags t ON t.id = btl.tag
        LEFT JOIN books_authors_link bal ON b.id = bal.book
        LEFT JOIN authors a ON bal.author = a.id
        WHERE (%s) %s
        ORDER BY b.id, t.name`,
		strings.Join(likeClauses, " OR "), authorClause)

	rows, err := s.metadata.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query meeting tags: %w", err)
	}
	defer rows.Close()

	var result []meetings.TagRow
	for rows.Next() {
		var row meetings.TagRow
		if err := rows.Scan(&row.BookID, &row.Title, &row.Path, &row.Tag); err != nil {
			return nil, fmt.Errorf("scan meeting tag row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meeting tags: %w", err)
	}
	return result, nil
}

// SearchableText returns the newest indexed text for the book. The boolean
// reports whether any non-empty text was found.
func (s *Store) SearchableText(ctx context.Context, bookID int64) (string, bool, error) {
	if s.fulltext == nil {
		return "", false, nil
	}
	row := s.fulltext.QueryRowContext(ctx, `
        SELECT searchable_text
        FROM books_text
        WHERE book = ? AND searchable_text IS NOT NULL AND searchable_text != ''
        ORDER BY timestamp DESC
        LIMIT 1`, bookID)
	var text string
	if err := row.Scan(&text); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("query searchable text: %w", err)
	}
	return text, text != "", nil
}

// PDFPath resolves the on-disk location of the book's PDF format, if one is
// registered and the file exists. relPath is the book's library-relative
// directory from the metadata row.
func (s *Store) PDFPath(ctx context.Context, bookID int64, relPath string) (string, bool, error) {
	row := s.metadata.QueryRowContext(ctx,
		`SELECT name, format FROM data WHERE book = ? AND format = 'PDF' LIMIT 1`, bookID)
	var name, format string
	if err := row.Scan(&name, &format); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("query pdf format: %w", err)
	}
	path := filepath.Join(s.root, relPath, name+"."+strings.ToLower(format))
	if _, err := os.Stat(path); err != nil {
		return "", false, nil
	}
	return path, true, nil
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
