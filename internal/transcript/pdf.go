package transcript

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandExtractor shells out to pdftotext to pull plain text from a PDF.
type CommandExtractor struct {
	Binary string
}

// NewCommandExtractor returns an extractor for the given binary, or nil when
// the binary is not on PATH so callers treat the capability as absent.
func NewCommandExtractor(binary string) *CommandExtractor {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil
	}
	if _, err := exec.LookPath(binary); err != nil {
		return nil
	}
	return &CommandExtractor{Binary: binary}
}

// Extract runs `pdftotext <path> -` and returns stdout.
func (e *CommandExtractor) Extract(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, e.Binary, path, "-")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return "", fmt.Errorf("%s: %s: %w", e.Binary, detail, err)
		}
		return "", fmt.Errorf("%s: %w", e.Binary, err)
	}
	return stdout.String(), nil
}
