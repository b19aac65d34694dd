// Package report owns the durable on-disk state: one markdown table per
// category, a run-history table, and per-person development pages. Merging
// is a full parse-modify-rewrite cycle per file, written atomically so a
// failed run never leaves a partial table behind.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"meetscan/internal/extract"
	"meetscan/internal/textutil"
)

// StatusOpen is the status assigned to every new entry. The tool never
// transitions status afterwards; that is a human edit.
const StatusOpen = "open"

// logHeaders is the stable column schema shared by all category logs. The
// merge locates prior rows by these names, so the order must not change.
var logHeaders = []string{"ID", "Date", "Meeting", "Person", "Description", "Status", "Incidents"}

// categoryFiles maps each category to its log file name in the report dir.
var categoryFiles = map[extract.Category]string{
	extract.CategoryRisk:  "risks.md",
	extract.CategoryIssue: "issues.md",
	extract.CategoryTask:  "tasks.md",
	extract.CategoryGrow:  "grows.md",
	extract.CategoryGlow:  "glows.md",
}

var categoryTitles = map[extract.Category]string{
	extract.CategoryRisk:  "Risks",
	extract.CategoryIssue: "Issues",
	extract.CategoryTask:  "Tasks",
	extract.CategoryGrow:  "Grows",
	extract.CategoryGlow:  "Glows",
}

// Entry is one durable row of a category log.
type Entry struct {
	ID          string
	Date        string
	Meeting     string
	Person      string
	Description string
	Status      string
	Incidents   int
}

// Fingerprint returns the canonical duplicate-detection key for the entry.
func (e Entry) Fingerprint(category extract.Category) string {
	return Fingerprint(category, e.Description, e.Person)
}

// Fingerprint derives the canonical key used for duplicate detection across
// runs. It covers category, description, and person only; meeting title and
// date are excluded so the same worded item recurring in a later meeting
// increments instead of duplicating. Matching is exact normalized text, not
// semantic similarity.
func Fingerprint(category extract.Category, description, person string) string {
	return strings.Join([]string{
		textutil.Normalize(string(category)),
		textutil.Normalize(description),
		textutil.Normalize(person),
	}, "\x1f")
}

// loadLog reads a category log file. A missing file is an empty log.
func loadLog(path string) ([]Entry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read log %s: %w", filepath.Base(path), err)
	}
	headers, rows, err := parseTable(string(content))
	if err != nil {
		return nil, fmt.Errorf("parse log %s: %w", filepath.Base(path), err)
	}
	if headers == nil {
		return nil, nil
	}
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		incidents, err := strconv.Atoi(strings.TrimSpace(row["Incidents"]))
		if err != nil || incidents < 1 {
			incidents = 1
		}
		entries = append(entries, Entry{
			ID:          row["ID"],
			Date:        row["Date"],
			Meeting:     row["Meeting"],
			Person:      row["Person"],
			Description: row["Description"],
			Status:      row["Status"],
			Incidents:   incidents,
		})
	}
	return entries, nil
}

// writeLog atomically rewrites a category log: the content lands in a temp
// file in the same directory and replaces the target via rename.
func writeLog(path, title string, entries []Entry) error {
	rows := make([]map[string]string, len(entries))
	for i, entry := range entries {
		rows[i] = map[string]string{
			"ID":          entry.ID,
			"Date":        entry.Date,
			"Meeting":     entry.Meeting,
			"Person":      entry.Person,
			"Description": entry.Description,
			"Status":      entry.Status,
			"Incidents":   strconv.Itoa(entry.Incidents),
		}
	}
	content := "# " + title + "\n\n" + renderTable(logHeaders, rows)
	return atomicWriteFile(path, []byte(content))
}

func atomicWriteFile(path string, content []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// nextID allocates the next entry ID for a category: the prefix plus the
// zero-padded max surviving numeric suffix plus one. Hand-deleting the
// highest-numbered row frees its number for the next allocation; gaps below
// the max are never refilled.
func nextID(entries []Entry, prefix string) string {
	max := 0
	for _, entry := range entries {
		suffix, ok := strings.CutPrefix(entry.ID, prefix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%04d", prefix, max+1)
}

// CategoryFileName returns the log file name for a category.
func CategoryFileName(category extract.Category) string {
	return categoryFiles[category]
}
