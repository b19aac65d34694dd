package report

import (
	"fmt"
	"strings"
)

// sanitizeCell makes a value safe to embed in a markdown table row. Pipes
// would split the row and newlines would break it, so both are replaced.
func sanitizeCell(value string) string {
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "|", "/")
	return strings.TrimSpace(value)
}

// renderTable produces a markdown table with the given header order. Every
// row map is projected onto the headers; missing cells render empty.
func renderTable(headers []string, rows []map[string]string) string {
	var b strings.Builder
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	separators := make([]string, len(headers))
	for i := range separators {
		separators[i] = "---"
	}
	b.WriteString("| " + strings.Join(separators, " | ") + " |\n")
	for _, row := range rows {
		cells := make([]string, len(headers))
		for i, header := range headers {
			cells[i] = sanitizeCell(row[header])
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return b.String()
}

// parseTable reads the first markdown table found in content. Lines before
// the table (titles, prose) are ignored; parsing stops at the first
// non-table line after the table begins. A content without any table yields
// nil headers.
func parseTable(content string) (headers []string, rows []map[string]string, err error) {
	inTable := false
	for lineNo, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "|") {
			if inTable {
				break
			}
			continue
		}
		cells := splitTableRow(trimmed)
		if !inTable {
			headers = cells
			inTable = true
			continue
		}
		if isSeparatorRow(cells) {
			continue
		}
		if len(cells) != len(headers) {
			return nil, nil, fmt.Errorf("table row at line %d has %d cells, header has %d", lineNo+1, len(cells), len(headers))
		}
		row := make(map[string]string, len(headers))
		for i, header := range headers {
			row[header] = cells[i]
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

func splitTableRow(line string) []string {
	line = strings.Trim(line, "|")
	parts := strings.Split(line, "|")
	cells := make([]string, len(parts))
	for i, part := range parts {
		cells[i] = strings.TrimSpace(part)
	}
	return cells
}

func isSeparatorRow(cells []string) bool {
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		if strings.Trim(cell, ":-") != "" {
			return false
		}
	}
	return true
}
