// Package markdown renders query results as Markdown tables for review and
// approval snapshots.
package markdown

import (
	"fmt"
	"strings"

	"github.com/roach88/lq/internal/query"
	"github.com/roach88/lq/internal/row"
)

// Compatible is implemented by values that render themselves as Markdown.
// Table cells use it in preference to fmt.Stringer.
type Compatible interface {
	Markdown() string
}

// Table is a Markdown table with a header row.
type Table struct {
	headers []string
	rows    [][]string
}

// New creates an empty table with the given column headers.
func New(headers ...string) *Table {
	return &Table{headers: append([]string(nil), headers...)}
}

// Create builds a two-column table with one row per input: the input
// itself and f(input).
//
//	markdown.Create([]int{1, 2}, square, "n", "n²")
func Create[I, O any](inputs []I, f func(I) O, column1, column2 string) *Table {
	cells := query.Select(query.From(inputs), func(in I) []string {
		return []string{Cell(in), Cell(f(in))}
	})
	return &Table{headers: []string{column1, column2}, rows: cells.Slice()}
}

// FromRows builds a table with one column per entry of columns. Fields a
// row does not carry render as empty cells.
func FromRows(columns []string, rows *query.Queryable[row.Row]) *Table {
	cells := query.Select(rows, func(r row.Row) []string {
		out := make([]string, len(columns))
		for i, c := range columns {
			out[i] = Cell(r.Get(c))
		}
		return out
	})
	return &Table{headers: append([]string(nil), columns...), rows: cells.Slice()}
}

// AddRow appends a row. Missing trailing cells render empty; extra cells
// are dropped.
func (t *Table) AddRow(cells ...any) *Table {
	out := make([]string, len(t.headers))
	for i := range out {
		if i < len(cells) {
			out[i] = Cell(cells[i])
		}
	}
	t.rows = append(t.rows, out)
	return t
}

// Len returns the number of body rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Markdown renders the table:
//
//	| name | age |
//	| --- | --- |
//	| ann | 31 |
//
// Every line ends with a newline. A table without headers renders as "".
func (t *Table) Markdown() string {
	if len(t.headers) == 0 {
		return ""
	}

	var b strings.Builder
	writeLine(&b, t.headers, escape)

	sep := make([]string, len(t.headers))
	for i := range sep {
		sep[i] = "---"
	}
	writeLine(&b, sep, nil)

	for _, r := range t.rows {
		writeLine(&b, r, escape)
	}
	return b.String()
}

// String returns Markdown().
func (t *Table) String() string {
	return t.Markdown()
}

// Extension returns the snapshot file extension for tables.
func (t *Table) Extension() string {
	return ".md"
}

// Approval returns the rendered table as snapshot content.
func (t *Table) Approval() ([]byte, error) {
	return []byte(t.Markdown()), nil
}

func writeLine(b *strings.Builder, cells []string, esc func(string) string) {
	b.WriteString("|")
	for _, c := range cells {
		if esc != nil {
			c = esc(c)
		}
		b.WriteString(" ")
		b.WriteString(c)
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

var escaper = strings.NewReplacer(
	"|", `\|`,
	"\r\n", "<br/>",
	"\n", "<br/>",
	"\r", "<br/>",
)

func escape(s string) string {
	return escaper.Replace(s)
}

// Cell formats v as table cell text. Nil and row.Null render empty.
func Cell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case Compatible:
		return val.Markdown()
	case row.Value:
		return row.Format(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(v)
	}
}
