package meetings

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat is the ISO date layout embedded in meeting tags.
const DateFormat = "2006-01-02"

// TagRow is one raw (meeting, tag) pairing read from the library metadata
// database. The same book appears once per matching tag.
type TagRow struct {
	BookID int64
	Title  string
	Path   string
	Tag    string
}

// Occurrence is a single date-scoped candidate for extraction.
type Occurrence struct {
	BookID      int64
	Title       string
	Path        string
	Tag         string
	MeetingDate time.Time
}

// DateString returns the occurrence date in ISO form.
func (o Occurrence) DateString() string {
	return o.MeetingDate.Format(DateFormat)
}

// Window is an inclusive [Start, End] date range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Today returns a window covering only the current day.
func Today() Window {
	day := truncateToDay(time.Now())
	return Window{Start: day, End: day}
}

// ParseWindow builds a window from ISO date strings. Empty values fall back
// to today.
func ParseWindow(start, end string) (Window, error) {
	w := Today()
	if strings.TrimSpace(start) != "" {
		parsed, err := time.Parse(DateFormat, strings.TrimSpace(start))
		if err != nil {
			return Window{}, fmt.Errorf("parse start date %q: %w", start, err)
		}
		w.Start = parsed
	}
	if strings.TrimSpace(end) != "" {
		parsed, err := time.Parse(DateFormat, strings.TrimSpace(end))
		if err != nil {
			return Window{}, fmt.Errorf("parse end date %q: %w", end, err)
		}
		w.End = parsed
	}
	if w.End.Before(w.Start) {
		return Window{}, fmt.Errorf("window end %s precedes start %s", w.End.Format(DateFormat), w.Start.Format(DateFormat))
	}
	return w, nil
}

// Contains reports whether the date falls inside the window, inclusive.
func (w Window) Contains(date time.Time) bool {
	day := truncateToDay(date)
	return !day.Before(w.Start) && !day.After(w.End)
}

// String renders the window as "start..end".
func (w Window) String() string {
	return w.Start.Format(DateFormat) + ".." + w.End.Format(DateFormat)
}

// ParseTagDate extracts the meeting date from a tag of the form
// "<prefix><YYYY-MM-DD>". The second return value is false when the tag does
// not start with the prefix or the remainder is not a valid date.
func ParseTagDate(tag, prefix string) (time.Time, bool) {
	if !strings.HasPrefix(tag, prefix) {
		return time.Time{}, false
	}
	remainder := strings.TrimSpace(strings.TrimPrefix(tag, prefix))
	parsed, err := time.Parse(DateFormat, remainder)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
