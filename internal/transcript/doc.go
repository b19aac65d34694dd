// Package transcript resolves the text of a meeting occurrence.
//
// Resolution order: the library's full-text index first, then extraction
// from an attached PDF when a pdftotext capability is present, then a
// well-defined unavailable result. Unavailable transcripts still flow
// downstream as zero-item extractions so the meeting counts as processed.
package transcript
