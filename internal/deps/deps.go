// Package deps reports the availability of optional external binaries.
//
// Both binaries degrade gracefully when absent: a missing pdftotext reduces
// transcript coverage to the full-text index, and a missing pandoc skips
// report PDF rendering.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external binary meetscan can make use of.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Defaults returns the binaries meetscan looks for.
func Defaults(pdftotext, pandoc string) []Requirement {
	return []Requirement{
		{
			Name:        "pdftotext",
			Command:     pdftotext,
			Description: "transcript extraction fallback for PDF-only meetings",
			Optional:    true,
		},
		{
			Name:        "pandoc",
			Command:     pandoc,
			Description: "PDF rendering of report tables",
			Optional:    true,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Available reports whether the named command resolves on PATH.
func Available(command string) bool {
	command = strings.TrimSpace(command)
	if command == "" {
		return false
	}
	_, err := exec.LookPath(command)
	return err == nil
}
