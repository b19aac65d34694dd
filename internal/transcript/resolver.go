package transcript

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"meetscan/internal/logging"
	"meetscan/internal/meetings"
)

// Source identifies where transcript text came from.
type Source string

const (
	// SourceIndex means the library full-text index supplied the text.
	SourceIndex Source = "index"
	// SourcePDF means the text was extracted from an attached PDF.
	SourcePDF Source = "pdf"
	// SourceNone means no transcript could be obtained.
	SourceNone Source = "none"
)

// Transcript carries resolved text and its provenance.
type Transcript struct {
	Text   string
	Source Source
}

// Available reports whether any transcript text was resolved.
func (t Transcript) Available() bool {
	return t.Source != SourceNone && strings.TrimSpace(t.Text) != ""
}

// Library is the subset of the library store the resolver needs.
type Library interface {
	SearchableText(ctx context.Context, bookID int64) (string, bool, error)
	PDFPath(ctx context.Context, bookID int64, relPath string) (string, bool, error)
}

// PDFExtractor pulls plain text out of a PDF file. A nil extractor on the
// resolver means the capability is absent and the fallback is skipped.
type PDFExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Resolver attaches transcript text to meeting occurrences.
type Resolver struct {
	library Library
	pdf     PDFExtractor
	logger  *slog.Logger
}

// NewResolver builds a resolver. pdf may be nil.
func NewResolver(lib Library, pdf PDFExtractor, logger *slog.Logger) *Resolver {
	return &Resolver{
		library: lib,
		pdf:     pdf,
		logger:  logging.NewComponentLogger(logger, "transcript"),
	}
}

// Resolve returns the transcript for the occurrence, or an unavailable
// result when neither the index nor the PDF fallback yields text.
func (r *Resolver) Resolve(ctx context.Context, occ meetings.Occurrence) (Transcript, error) {
	text, ok, err := r.library.SearchableText(ctx, occ.BookID)
	if err != nil {
		return Transcript{Source: SourceNone}, fmt.Errorf("full-text lookup for %q: %w", occ.Title, err)
	}
	if ok {
		return Transcript{Text: text, Source: SourceIndex}, nil
	}

	if r.pdf == nil {
		r.logger.Debug("no indexed text and pdf extraction unavailable",
			logging.Args(logging.String(logging.FieldMeeting, occ.Title))...)
		return Transcript{Source: SourceNone}, nil
	}

	path, ok, err := r.library.PDFPath(ctx, occ.BookID, occ.Path)
	if err != nil {
		return Transcript{Source: SourceNone}, fmt.Errorf("pdf lookup for %q: %w", occ.Title, err)
	}
	if !ok {
		return Transcript{Source: SourceNone}, nil
	}

	extracted, err := r.pdf.Extract(ctx, path)
	if err != nil {
		r.logger.Warn("pdf extraction failed",
			logging.Args(
				logging.String(logging.FieldMeeting, occ.Title),
				logging.String("path", path),
				logging.Error(err),
			)...)
		return Transcript{Source: SourceNone}, nil
	}
	if strings.TrimSpace(extracted) == "" {
		r.logger.Warn("pdf contained no extractable text",
			logging.Args(
				logging.String(logging.FieldMeeting, occ.Title),
				logging.String("path", path),
			)...)
		return Transcript{Source: SourceNone}, nil
	}
	return Transcript{Text: extracted, Source: SourcePDF}, nil
}
