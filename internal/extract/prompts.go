package extract

import (
	_ "embed"
	"strings"
)

//go:embed prompts/system.txt
var systemPrompt string

//go:embed prompts/user.txt
var userPromptTemplate string

// buildUserPrompt fills the user prompt template with the meeting context and
// the bounded transcript window.
func buildUserPrompt(title, date, transcriptWindow string) string {
	replacer := strings.NewReplacer(
		"{{meeting_title}}", title,
		"{{meeting_date}}", date,
		"{{transcript}}", transcriptWindow,
	)
	return replacer.Replace(userPromptTemplate)
}

// promptWindow bounds the transcript to maxChars. When marker is non-empty
// and present in the text, the window starts at the marker instead of the
// head so operators can point the model at a known-dense region.
func promptWindow(text, marker string, maxChars int) string {
	if marker != "" {
		if idx := strings.Index(text, marker); idx >= 0 {
			text = text[idx:]
		}
	}
	if maxChars > 0 && len(text) > maxChars {
		text = text[:maxChars]
	}
	return text
}
