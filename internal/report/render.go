package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"meetscan/internal/deps"
	"meetscan/internal/extract"
	"meetscan/internal/logging"
)

// Renderer converts the markdown reports to PDF via pandoc. Pandoc is an
// optional capability; when it is not installed Render reports a skip
// instead of failing.
type Renderer struct {
	store     *Store
	pandocBin string
	pdfEngine string
}

// NewRenderer creates a renderer over the store's report directory.
func NewRenderer(store *Store, pandocBin, pdfEngine string) *Renderer {
	if pandocBin == "" {
		pandocBin = "pandoc"
	}
	return &Renderer{store: store, pandocBin: pandocBin, pdfEngine: pdfEngine}
}

// RenderResult reports what a render pass produced.
type RenderResult struct {
	Rendered []string
	Skipped  bool
}

// Render converts every existing category log and person page to PDF under
// <reports>/pdf. Returns Skipped=true when pandoc is unavailable.
func (r *Renderer) Render(ctx context.Context) (RenderResult, error) {
	var result RenderResult
	if !deps.Available(r.pandocBin) {
		r.store.logger.Warn("pandoc not found, skipping pdf render")
		result.Skipped = true
		return result, nil
	}

	outDir := filepath.Join(r.store.dir, "pdf")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return result, fmt.Errorf("create pdf dir: %w", err)
	}

	var sources []string
	for _, category := range extract.Categories {
		sources = append(sources, filepath.Join(r.store.dir, categoryFiles[category]))
	}
	sources = append(sources, filepath.Join(r.store.dir, historyFileName))
	personsDir := filepath.Join(r.store.dir, personsDirName)
	if pages, err := filepath.Glob(filepath.Join(personsDir, "*.md")); err == nil {
		sources = append(sources, pages...)
	}

	for _, source := range sources {
		if _, err := os.Stat(source); err != nil {
			continue
		}
		target := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(source), ".md")+".pdf")
		if err := r.renderOne(ctx, source, target); err != nil {
			return result, fmt.Errorf("render %s: %w", filepath.Base(source), err)
		}
		result.Rendered = append(result.Rendered, target)
		r.store.logger.Debug("rendered pdf", logging.String("path", target))
	}
	return result, nil
}

func (r *Renderer) renderOne(ctx context.Context, source, target string) error {
	args := []string{source, "-o", target}
	if r.pdfEngine != "" {
		args = append(args, "--pdf-engine", r.pdfEngine)
	}
	cmd := exec.CommandContext(ctx, r.pandocBin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		message := strings.TrimSpace(stderr.String())
		if message != "" {
			return fmt.Errorf("%w: %s", err, message)
		}
		return err
	}
	return nil
}
