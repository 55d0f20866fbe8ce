package domain

import "strings"

// SeparatorCell is the structural cell of the header separator row.
const SeparatorCell = "---"

// PortableTable is the text form of a host table.
// Header holds the column labels; Rows holds the body rows, already padded
// to the header width (rows wider than the header are kept as they are).
type PortableTable struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Width returns the number of header columns.
func (t PortableTable) Width() int {
	return len(t.Header)
}

// Markdown renders the table as a pipe table, one line per row.
// The separator row always follows the header, even an empty one.
func (t PortableTable) Markdown() string {
	var b strings.Builder
	writeRow(&b, t.Header)
	sep := make([]string, len(t.Header))
	for i := range sep {
		sep[i] = SeparatorCell
	}
	writeRow(&b, sep)
	for _, row := range t.Rows {
		writeRow(&b, row)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString(" |\n")
}
