package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"

	"meetscan/internal/extract"
	"meetscan/internal/logging"
)

const lockRetryDelay = 100 * time.Millisecond

// CategoryResult tallies the merge outcome for one category.
type CategoryResult struct {
	New         int
	Incremented int
	Err         error
}

// MergeResult summarizes one merge pass across all categories. A category
// that fails to merge is reported in its result's Err without affecting the
// other categories.
type MergeResult struct {
	Categories map[extract.Category]CategoryResult
}

// New returns the total count of newly created entries.
func (r MergeResult) New() int {
	var total int
	for _, result := range r.Categories {
		total += result.New
	}
	return total
}

// Incremented returns the total count of incident increments.
func (r MergeResult) Incremented() int {
	var total int
	for _, result := range r.Categories {
		total += result.Incremented
	}
	return total
}

// Failed lists the categories whose merge failed, in stable order.
func (r MergeResult) Failed() []extract.Category {
	var failed []extract.Category
	for _, category := range extract.Categories {
		if result, ok := r.Categories[category]; ok && result.Err != nil {
			failed = append(failed, category)
		}
	}
	return failed
}

// Store owns the report directory. Writes are serialized with an advisory
// file lock so overlapping invocations cannot interleave partial tables.
type Store struct {
	dir    string
	lock   *flock.Flock
	logger *slog.Logger
}

// NewStore creates a store rooted at dir, creating the directory if needed.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}
	return &Store{
		dir:    dir,
		lock:   flock.New(filepath.Join(dir, ".meetscan.lock")),
		logger: logging.NewComponentLogger(logger, "report"),
	}, nil
}

// Dir returns the report directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Merge reconciles extracted items against the category logs: exact
// fingerprint repeats increment the existing entry's incident count, new
// fingerprints get the next free ID and are appended. Pre-existing rows keep
// their order and position. With dryRun set the result is computed but
// nothing is written.
func (s *Store) Merge(ctx context.Context, items []extract.Item, dryRun bool) (MergeResult, error) {
	result := MergeResult{Categories: make(map[extract.Category]CategoryResult)}

	if !dryRun {
		locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
		if err != nil {
			return result, fmt.Errorf("lock report dir: %w", err)
		}
		if !locked {
			return result, fmt.Errorf("lock report dir: not acquired")
		}
		defer s.lock.Unlock()
	}

	byCategory := make(map[extract.Category][]extract.Item)
	for _, item := range items {
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	for _, category := range extract.Categories {
		categoryItems := byCategory[category]
		if len(categoryItems) == 0 {
			continue
		}
		categoryResult := s.mergeCategory(category, categoryItems, dryRun)
		result.Categories[category] = categoryResult
		if categoryResult.Err != nil {
			s.logger.Error("category merge failed",
				logging.String("category", string(category)),
				logging.Error(categoryResult.Err),
			)
			continue
		}
		s.logger.Debug("category merged",
			logging.String("category", string(category)),
			logging.Int("new", categoryResult.New),
			logging.Int("incremented", categoryResult.Incremented),
			logging.Bool("dry_run", dryRun),
		)
	}
	return result, nil
}

// mergeCategory runs the read-modify-write cycle for one log file. IDs are
// allocated in a single pass over the staged items, so two new items in the
// same run can never collide; a fingerprint staged earlier in the run is an
// increment, not a second row.
func (s *Store) mergeCategory(category extract.Category, items []extract.Item, dryRun bool) CategoryResult {
	var result CategoryResult
	path := filepath.Join(s.dir, categoryFiles[category])

	entries, err := loadLog(path)
	if err != nil {
		result.Err = err
		return result
	}

	index := make(map[string]int, len(entries))
	for i, entry := range entries {
		index[entry.Fingerprint(category)] = i
	}

	changed := false
	for _, item := range items {
		// Cells are sanitized before fingerprinting so the stored row and a
		// rerun of the same item produce the same key.
		description := sanitizeCell(item.Description)
		person := sanitizeCell(item.Person)
		fingerprint := Fingerprint(category, description, person)
		if i, ok := index[fingerprint]; ok {
			entries[i].Incidents++
			result.Incremented++
			changed = true
			continue
		}
		entries = append(entries, Entry{
			ID:          nextID(entries, category.IDPrefix()),
			Date:        item.Date,
			Meeting:     sanitizeCell(item.Meeting),
			Person:      person,
			Description: description,
			Status:      StatusOpen,
			Incidents:   1,
		})
		index[fingerprint] = len(entries) - 1
		result.New++
		changed = true
	}

	if dryRun || !changed {
		return result
	}
	if err := writeLog(path, categoryTitles[category], entries); err != nil {
		result.Err = err
		return result
	}
	return result
}

// Entries loads the current log for a category. Used by the person pages
// and the render command.
func (s *Store) Entries(category extract.Category) ([]Entry, error) {
	return loadLog(filepath.Join(s.dir, categoryFiles[category]))
}

// SortedByPerson returns the entries ordered by person, then date, then ID.
func SortedByPerson(entries []Entry) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Person != sorted[j].Person {
			return sorted[i].Person < sorted[j].Person
		}
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}
