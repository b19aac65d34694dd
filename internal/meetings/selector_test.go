package meetings

import (
	"testing"
	"time"
)

func mustWindow(t *testing.T, start, end string) Window {
	t.Helper()
	w, err := ParseWindow(start, end)
	if err != nil {
		t.Fatalf("ParseWindow(%q, %q): %v", start, end, err)
	}
	return w
}

func TestParseTagDate(t *testing.T) {
	date, ok := ParseTagDate("Meetings.2025-11-25", "Meetings.")
	if !ok {
		t.Fatal("expected tag to parse")
	}
	if date.Format(DateFormat) != "2025-11-25" {
		t.Fatalf("unexpected date: %s", date)
	}
	if _, ok := ParseTagDate("Meetings.november", "Meetings."); ok {
		t.Fatal("expected malformed date to fail")
	}
	if _, ok := ParseTagDate("Projects.2025-11-25", "Meetings."); ok {
		t.Fatal("expected non-matching prefix to fail")
	}
}

func TestParseWindowRejectsInvertedRange(t *testing.T) {
	if _, err := ParseWindow("2025-11-30", "2025-11-01"); err == nil {
		t.Fatal("expected error for inverted window")
	}
}

func TestParseWindowDefaultsToToday(t *testing.T) {
	w, err := ParseWindow("", "")
	if err != nil {
		t.Fatalf("ParseWindow: %v", err)
	}
	if !w.Start.Equal(w.End) {
		t.Fatalf("default window should cover one day: %s", w)
	}
	if !w.Contains(time.Now()) {
		t.Fatal("default window should contain today")
	}
}

func TestSelectFiltersExpandsAndOrders(t *testing.T) {
	rows := []TagRow{
		{BookID: 3, Title: "Retro", Tag: "Meetings.2025-11-27"},
		{BookID: 1, Title: "Weekly Sync", Tag: "Meetings.2025-11-25"},
		// Same book, second session tag: becomes a second occurrence.
		{BookID: 1, Title: "Weekly Sync", Tag: "Meetings.2025-11-26"},
		// Duplicate row from the tag join: deduplicated.
		{BookID: 1, Title: "Weekly Sync", Tag: "Meetings.2025-11-25"},
		// Outside the window.
		{BookID: 4, Title: "Kickoff", Tag: "Meetings.2025-10-01"},
		// Unparseable date: skipped with a warning.
		{BookID: 5, Title: "Broken", Tag: "Meetings.soon"},
		// Prefix not configured.
		{BookID: 6, Title: "Planning", Tag: "Projects.2025-11-25"},
		{BookID: 2, Title: "1:1 Alice", Tag: "Meeting.2025-11-26"},
	}
	window := mustWindow(t, "2025-11-25", "2025-11-27")

	got := Select(rows, []string{"Meetings.", "Meeting."}, window, nil)
	if len(got) != 4 {
		t.Fatalf("expected 4 occurrences, got %d: %+v", len(got), got)
	}
	wantOrder := []string{"Weekly Sync", "1:1 Alice", "Weekly Sync", "Retro"}
	for i, occ := range got {
		if occ.Title != wantOrder[i] {
			t.Fatalf("unexpected order at %d: got %q want %q", i, occ.Title, wantOrder[i])
		}
	}
	if got[0].Tag != "Meetings.2025-11-25" || got[2].Tag != "Meetings.2025-11-26" {
		t.Fatalf("multi-tag expansion incorrect: %+v", got)
	}
}

func TestSelectPrefersLongestPrefix(t *testing.T) {
	rows := []TagRow{{BookID: 1, Title: "Sync", Tag: "Meetings.2025-11-25"}}
	window := mustWindow(t, "2025-11-25", "2025-11-25")
	got := Select(rows, []string{"Meeting.", "Meetings."}, window, nil)
	if len(got) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(got))
	}
	if got[0].DateString() != "2025-11-25" {
		t.Fatalf("unexpected date: %s", got[0].DateString())
	}
}

func TestSelectDeterministic(t *testing.T) {
	rows := []TagRow{
		{BookID: 2, Title: "B", Tag: "Meetings.2025-11-25"},
		{BookID: 1, Title: "A", Tag: "Meetings.2025-11-25"},
	}
	window := mustWindow(t, "2025-11-25", "2025-11-25")
	first := Select(rows, []string{"Meetings."}, window, nil)
	second := Select([]TagRow{rows[1], rows[0]}, []string{"Meetings."}, window, nil)
	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 occurrences each run")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("ordering not deterministic: %+v vs %+v", first, second)
		}
	}
}
