// Package meetings holds the meeting domain model and the selection logic
// that turns raw library tag rows into an ordered sequence of candidate
// meeting occurrences.
//
// A meeting carrying several date tags (for example a recurring session
// tagged once per week) yields one occurrence per matching tag, because
// extraction output is scoped to a meeting date.
package meetings
