package textutil

import (
	"regexp"
	"strings"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// Normalize collapses whitespace runs to single spaces, trims the ends, and
// lowercases the result. Fingerprint comparison uses this form exclusively.
func Normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(whitespacePattern.ReplaceAllString(value, " ")))
}

// CollapseWhitespace collapses whitespace runs without changing case.
func CollapseWhitespace(value string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(value, " "))
}

// SanitizeToken lowercases a value into a filesystem-safe token for artifact
// and person-page file names. Anything outside [a-z0-9_-] becomes an
// underscore; an input with nothing usable yields "unknown".
func SanitizeToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range strings.ToLower(value) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	token := strings.Trim(b.String(), "_-")
	if token == "" {
		return "unknown"
	}
	return token
}
