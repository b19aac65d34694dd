package extract

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"meetscan/internal/logging"
	"meetscan/internal/meetings"
	"meetscan/internal/textutil"
	"meetscan/internal/transcript"
)

// categoryCues maps each category to the lowercase phrases that signal it.
// Order inside each list does not matter; the first category in Categories
// order that matches a line wins.
var categoryCues = map[Category][]string{
	CategoryRisk: {
		"at risk", "risk that", "big risk", "worried that", "worried about",
		"concern that", "concerned about", "might slip", "could slip",
		"might fail", "could fail", "may not make",
	},
	CategoryIssue: {
		"blocked on", "blocked by", "blocker", "is broken", "not working",
		"keeps failing", "ran into an issue", "ran into a problem",
		"the problem is", "root cause",
	},
	CategoryTask: {
		"action item", "i will take", "i'll take", "will follow up",
		"follow up with", "needs to be done by", "let's schedule",
		"i will send", "i'll send", "take ownership of",
	},
	CategoryGrow: {
		"could improve", "should improve", "needs to work on", "should work on",
		"growth area", "area for improvement", "opportunity to improve",
		"next time try", "would benefit from",
	},
	CategoryGlow: {
		"great job", "great work", "nice work", "well done", "kudos",
		"shout out", "shout-out", "really appreciate", "proud of",
		"nailed it",
	},
}

// speakerLabelRe matches a transcript speaker turn such as "Alice Smith:".
var speakerLabelRe = regexp.MustCompile(`^([A-Za-z][A-Za-z .''-]{0,48}):\s*(.*)$`)

var personCaser = cases.Title(language.English, cases.NoLower)

// CanonicalPerson normalizes a speaker or owner name for stable reporting.
// All-lowercase names are title-cased; names with existing capitals are kept
// as written.
func CanonicalPerson(name string) string {
	name = textutil.CollapseWhitespace(name)
	if name == "" {
		return ""
	}
	if strings.ToLower(name) == name {
		return personCaser.String(name)
	}
	return name
}

// Heuristic scans transcript text for category-indicative phrases. It makes
// no external calls and is fully deterministic: the same text always yields
// the same items in source order.
type Heuristic struct {
	logger *slog.Logger
}

// NewHeuristic creates the keyword extractor.
func NewHeuristic(logger *slog.Logger) *Heuristic {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Heuristic{logger: logging.NewComponentLogger(logger, "heuristic")}
}

func (h *Heuristic) Name() string { return "heuristic" }

// Extract emits one item per line containing a category cue, attributed to
// the nearest preceding speaker label when the transcript exposes speaker
// turns.
func (h *Heuristic) Extract(ctx context.Context, occ meetings.Occurrence, tr transcript.Transcript) ([]Item, error) {
	if !tr.Available() {
		return nil, nil
	}

	var items []Item
	var speaker string
	for _, line := range strings.Split(tr.Text, "\n") {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		body := line
		if m := speakerLabelRe.FindStringSubmatch(line); m != nil {
			speaker = CanonicalPerson(m[1])
			body = strings.TrimSpace(m[2])
			if body == "" {
				continue
			}
		}
		category, ok := matchCategory(body)
		if !ok {
			continue
		}
		items = append(items, Item{
			Category:    category,
			Description: textutil.CollapseWhitespace(body),
			Person:      speaker,
			Meeting:     occ.Title,
			Date:        occ.DateString(),
		})
	}
	if len(items) > 0 {
		h.logger.Debug("heuristic extraction finished",
			logging.String(logging.FieldMeeting, occ.Title),
			logging.Int("items", len(items)),
		)
	}
	return items, nil
}

func matchCategory(line string) (Category, bool) {
	lowered := strings.ToLower(line)
	for _, category := range Categories {
		for _, cue := range categoryCues[category] {
			if strings.Contains(lowered, cue) {
				return category, true
			}
		}
	}
	return "", false
}
