package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"meetscan/internal/extract"
)

const historyFileName = "run_history.md"

// historyHeaders carries one column per category between the skip and merge
// totals, in the categories' fixed order.
var historyHeaders = func() []string {
	headers := []string{"Run ID", "Timestamp", "Window", "Scanned", "Skipped"}
	for _, category := range extract.Categories {
		headers = append(headers, categoryTitles[category])
	}
	return append(headers, "New", "Repeats", "Errors")
}()

// RunRecord is one append-only row of the run-history table.
type RunRecord struct {
	RunID     string
	Timestamp time.Time
	Window    string
	Scanned   int
	Skipped   int
	Extracted map[extract.Category]int
	New       int
	Repeats   int
	Errors    int
}

// NewRunID allocates a short unique identifier for a run.
func NewRunID() string {
	return uuid.NewString()[:8]
}

// AppendRunRecord adds one row to the run-history table. Prior rows are
// preserved verbatim; a missing file gets a generated header.
func (s *Store) AppendRunRecord(record RunRecord) error {
	path := filepath.Join(s.dir, historyFileName)

	var rows []map[string]string
	content, err := os.ReadFile(path)
	if err == nil {
		_, rows, err = parseTable(string(content))
		if err != nil {
			return fmt.Errorf("parse run history: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read run history: %w", err)
	}

	row := map[string]string{
		"Run ID":    record.RunID,
		"Timestamp": record.Timestamp.UTC().Format(time.RFC3339),
		"Window":    record.Window,
		"Scanned":   strconv.Itoa(record.Scanned),
		"Skipped":   strconv.Itoa(record.Skipped),
		"New":       strconv.Itoa(record.New),
		"Repeats":   strconv.Itoa(record.Repeats),
		"Errors":    strconv.Itoa(record.Errors),
	}
	for _, category := range extract.Categories {
		row[categoryTitles[category]] = strconv.Itoa(record.Extracted[category])
	}
	rows = append(rows, row)

	body := "# Run History\n\n" + renderTable(historyHeaders, rows)
	if err := atomicWriteFile(path, []byte(body)); err != nil {
		return fmt.Errorf("write run history: %w", err)
	}
	return nil
}

// RunRecords loads the run-history table.
func (s *Store) RunRecords() ([]RunRecord, error) {
	content, err := os.ReadFile(filepath.Join(s.dir, historyFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read run history: %w", err)
	}
	_, rows, err := parseTable(string(content))
	if err != nil {
		return nil, fmt.Errorf("parse run history: %w", err)
	}
	records := make([]RunRecord, 0, len(rows))
	for _, row := range rows {
		timestamp, _ := time.Parse(time.RFC3339, row["Timestamp"])
		extracted := make(map[extract.Category]int, len(extract.Categories))
		for _, category := range extract.Categories {
			extracted[category] = atoiOrZero(row[categoryTitles[category]])
		}
		records = append(records, RunRecord{
			RunID:     row["Run ID"],
			Timestamp: timestamp,
			Window:    row["Window"],
			Scanned:   atoiOrZero(row["Scanned"]),
			Skipped:   atoiOrZero(row["Skipped"]),
			Extracted: extracted,
			New:       atoiOrZero(row["New"]),
			Repeats:   atoiOrZero(row["Repeats"]),
			Errors:    atoiOrZero(row["Errors"]),
		})
	}
	return records, nil
}

func atoiOrZero(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}
