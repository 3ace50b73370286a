// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// Table collects rows and writes them as aligned columns. The header
// row is styled when the output is a terminal.
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable returns an empty table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// Row appends a row. Missing cells are blank and extra cells dropped.
func (t *Table) Row(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Write renders the table to w.
func (t *Table) Write(w io.Writer) error {
	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = lipgloss.Width(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	styled := IsTerminal(w)
	var builder strings.Builder
	writeRow := func(cells []string, header bool) {
		for i, cell := range cells {
			last := i == len(cells)-1
			padding := ""
			if !last {
				padding = strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+2)
			}
			if header && styled {
				cell = headerStyle.Render(cell)
			}
			builder.WriteString(cell)
			builder.WriteString(padding)
		}
		builder.WriteByte('\n')
	}
	writeRow(t.headers, true)
	for _, row := range t.rows {
		writeRow(row, false)
	}
	_, err := io.WriteString(w, builder.String())
	return err
}
