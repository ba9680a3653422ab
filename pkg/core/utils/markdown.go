package utils

import (
	"strings"
)

// Align is a markdown table column alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
)

// Table builds a GitHub-flavored markdown table.
type Table struct {
	headers []string
	aligns  []Align
	rows    [][]string
}

// NewTable starts a table with the given headers, all left aligned.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers, aligns: make([]Align, len(headers))}
}

// Align sets the alignment of column i.
func (t *Table) Align(i int, a Align) *Table {
	if i >= 0 && i < len(t.aligns) {
		t.aligns[i] = a
	}
	return t
}

// Row appends a row. Missing cells are left blank and extra cells dropped.
func (t *Table) Row(cells ...string) *Table {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
	return t
}

// String renders the table, one line per row.
func (t *Table) String() string {
	var b strings.Builder
	writeRow(&b, t.headers)

	b.WriteString("|")
	for _, a := range t.aligns {
		switch a {
		case AlignRight:
			b.WriteString(" ---: |")
		case AlignCenter:
			b.WriteString(" :---: |")
		default:
			b.WriteString(" --- |")
		}
	}
	b.WriteString("\n")

	for _, row := range t.rows {
		writeRow(&b, row)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(EscapeCell(c))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

// EscapeCell makes s safe inside a table cell.
func EscapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// CleanMarkdown strips an outer code fence (```markdown ... ```) if present.
func CleanMarkdown(input string) string {
	cleaned := strings.TrimSpace(input)
	if !strings.HasPrefix(cleaned, "```") || !strings.HasSuffix(cleaned, "```") || len(cleaned) < 6 {
		return cleaned
	}
	cleaned = strings.TrimSuffix(strings.TrimPrefix(cleaned, "```"), "```")
	cleaned = strings.TrimPrefix(cleaned, "markdown")
	return strings.TrimSpace(cleaned)
}
