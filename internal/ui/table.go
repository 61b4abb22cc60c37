package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// maxColumnWidth caps a single column; longer cells are truncated.
const maxColumnWidth = 48

// Table is a boxed table rendered with lipgloss styles.
type Table struct {
	Headers []string
	Rows    [][]string

	// Styles, when set, colors the cells of column i. Unset columns use ValueStyle.
	Styles map[int]lipgloss.Style
}

// NewTable creates a table with the given headers
func NewTable(headers ...string) *Table {
	return &Table{Headers: headers, Styles: make(map[int]lipgloss.Style)}
}

// AddRow appends a row. Missing trailing cells are rendered empty.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

func (t *Table) widths() []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.Rows {
		for i := range widths {
			if i < len(row) {
				widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
			}
		}
	}
	for i := range widths {
		widths[i] = min(widths[i], maxColumnWidth)
	}
	return widths
}

func border(sb *strings.Builder, widths []int, left, mid, right string) {
	sb.WriteString(BorderStyle.Render(left))
	for i, w := range widths {
		sb.WriteString(BorderStyle.Render(strings.Repeat(Horizontal, w+2)))
		if i < len(widths)-1 {
			sb.WriteString(BorderStyle.Render(mid))
		}
	}
	sb.WriteString(BorderStyle.Render(right))
	sb.WriteString("\n")
}

// Render returns the table as a string
func (t *Table) Render() string {
	widths := t.widths()

	var sb strings.Builder
	border(&sb, widths, TopLeft, TopT, TopRight)

	sb.WriteString(BorderStyle.Render(Vertical))
	for i, h := range t.Headers {
		sb.WriteString(HeaderStyle.Render(" " + padRight(h, widths[i]) + " "))
		sb.WriteString(BorderStyle.Render(Vertical))
	}
	sb.WriteString("\n")

	if len(t.Rows) > 0 {
		border(&sb, widths, LeftT, Cross, RightT)
	}

	for _, row := range t.Rows {
		sb.WriteString(BorderStyle.Render(Vertical))
		for i, w := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			style, ok := t.Styles[i]
			if !ok {
				style = ValueStyle
			}
			sb.WriteString(style.Render(" " + padRight(cell, w) + " "))
			sb.WriteString(BorderStyle.Render(Vertical))
		}
		sb.WriteString("\n")
	}

	border(&sb, widths, BottomLeft, BottomT, BottomRight)
	return sb.String()
}

// Print writes the rendered table to w
func (t *Table) Print(w io.Writer) error {
	_, err := io.WriteString(w, t.Render())
	return err
}
