package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"meetscan/internal/extract"
	"meetscan/internal/logging"
	"meetscan/internal/textutil"
)

const personsDirName = "development_by_person"

var personPageHeaders = []string{"ID", "Date", "Meeting", "Description", "Status", "Incidents"}

// WritePersonPages regenerates the per-person development pages from the
// current grows and glows logs. Each person gets one markdown file with a
// Grows and a Glows section; team-scoped entries (empty person) land on the
// shared Unassigned page. Pages are derived state and rebuilt from scratch
// every run.
func (s *Store) WritePersonPages() (int, error) {
	grows, err := s.Entries(extract.CategoryGrow)
	if err != nil {
		return 0, fmt.Errorf("load grows: %w", err)
	}
	glows, err := s.Entries(extract.CategoryGlow)
	if err != nil {
		return 0, fmt.Errorf("load glows: %w", err)
	}
	if len(grows) == 0 && len(glows) == 0 {
		return 0, nil
	}

	dir := filepath.Join(s.dir, personsDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create person pages dir: %w", err)
	}

	byPerson := make(map[string]*personPage)
	collect := func(entries []Entry, section string) {
		for _, entry := range SortedByPerson(entries) {
			person := entry.Person
			if person == "" {
				person = "Unassigned"
			}
			page, ok := byPerson[person]
			if !ok {
				page = &personPage{person: person}
				byPerson[person] = page
			}
			if section == "grows" {
				page.grows = append(page.grows, entry)
			} else {
				page.glows = append(page.glows, entry)
			}
		}
	}
	collect(grows, "grows")
	collect(glows, "glows")

	written := 0
	for _, page := range byPerson {
		path := filepath.Join(dir, textutil.SanitizeToken(page.person)+".md")
		if err := atomicWriteFile(path, []byte(page.render())); err != nil {
			return written, fmt.Errorf("write page for %s: %w", page.person, err)
		}
		written++
	}
	s.logger.Debug("person pages written", logging.Int("pages", written))
	return written, nil
}

type personPage struct {
	person string
	grows  []Entry
	glows  []Entry
}

func (p *personPage) render() string {
	var b strings.Builder
	b.WriteString("# " + p.person + "\n")
	writeSection := func(title string, entries []Entry) {
		if len(entries) == 0 {
			return
		}
		rows := make([]map[string]string, len(entries))
		for i, entry := range entries {
			rows[i] = map[string]string{
				"ID":          entry.ID,
				"Date":        entry.Date,
				"Meeting":     entry.Meeting,
				"Description": entry.Description,
				"Status":      entry.Status,
				"Incidents":   fmt.Sprintf("%d", entry.Incidents),
			}
		}
		b.WriteString("\n## " + title + "\n\n")
		b.WriteString(renderTable(personPageHeaders, rows))
	}
	writeSection("Grows", p.grows)
	writeSection("Glows", p.glows)
	return b.String()
}
