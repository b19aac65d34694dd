package meetings

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"meetscan/internal/logging"
)

// Select expands tag rows into date-scoped occurrences inside the window.
//
// Rows whose tag matches a prefix but carries an unparseable date are skipped
// with a warning; they are operator data errors, not fatal conditions. The
// result is deduplicated on (book, tag) and ordered by meeting date, then
// title, then tag, so repeated runs visit candidates in the same order.
func Select(rows []TagRow, prefixes []string, window Window, logger *slog.Logger) []Occurrence {
	if logger == nil {
		logger = logging.NewNop()
	}

	seen := make(map[string]struct{}, len(rows))
	occurrences := make([]Occurrence, 0, len(rows))
	for _, row := range rows {
		prefix, matched := matchPrefix(row.Tag, prefixes)
		if !matched {
			continue
		}
		date, ok := ParseTagDate(row.Tag, prefix)
		if !ok {
			logger.Warn("skipping tag with unparseable date",
				logging.Args(
					logging.String("tag", row.Tag),
					logging.String(logging.FieldMeeting, row.Title),
				)...)
			continue
		}
		if !window.Contains(date) {
			continue
		}
		key := dedupeKey(row.BookID, row.Tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		occurrences = append(occurrences, Occurrence{
			BookID:      row.BookID,
			Title:       row.Title,
			Path:        row.Path,
			Tag:         row.Tag,
			MeetingDate: date,
		})
	}

	sort.Slice(occurrences, func(i, j int) bool {
		a, b := occurrences[i], occurrences[j]
		if !a.MeetingDate.Equal(b.MeetingDate) {
			return a.MeetingDate.Before(b.MeetingDate)
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.Tag < b.Tag
	})
	return occurrences
}

func matchPrefix(tag string, prefixes []string) (string, bool) {
	best := ""
	for _, prefix := range prefixes {
		if strings.HasPrefix(tag, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	return best, best != ""
}

func dedupeKey(bookID int64, tag string) string {
	return strconv.FormatInt(bookID, 10) + "#" + tag
}
