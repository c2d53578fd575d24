package logger

import (
	"fmt"
	"io"
	"strings"
)

type Table struct {
	headers     []string
	rows        [][]string
	columnWidth []int
	out         io.Writer
}

func NewTable(headers []string, out io.Writer) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}

	return &Table{
		headers:     headers,
		columnWidth: widths,
		out:         out,
	}
}

// AddRow appends a row, truncating or padding it to the header count.
func (t *Table) AddRow(cells ...string) {
	if len(cells) > len(t.headers) {
		cells = cells[:len(t.headers)]
	} else if len(cells) < len(t.headers) {
		padded := make([]string, len(t.headers))
		copy(padded, cells)
		cells = padded
	}

	for i, cell := range cells {
		if len(cell) > t.columnWidth[i] {
			t.columnWidth[i] = len(cell)
		}
	}

	t.rows = append(t.rows, cells)
}

func (t *Table) rule(left, mid, right string) string {
	parts := make([]string, len(t.columnWidth))
	for i, w := range t.columnWidth {
		parts[i] = strings.Repeat("─", w+2)
	}
	return left + strings.Join(parts, mid) + right
}

func (t *Table) line(cells []string) string {
	var sb strings.Builder
	sb.WriteString("│")
	for i, cell := range cells {
		sb.WriteString(fmt.Sprintf(" %-*s │", t.columnWidth[i], cell))
	}
	return sb.String()
}

func (t *Table) Print() {
	var sb strings.Builder

	sb.WriteString(t.rule("┌", "┬", "┐") + "\n")
	sb.WriteString(t.line(t.headers) + "\n")
	sb.WriteString(t.rule("├", "┼", "┤") + "\n")
	for _, row := range t.rows {
		sb.WriteString(t.line(row) + "\n")
	}
	sb.WriteString(t.rule("└", "┴", "┘"))

	fmt.Fprintln(t.out, sb.String())
}
