package transcode

import (
	"github.com/aretw0/marginalia/pkg/domain"
	"github.com/aretw0/marginalia/pkg/ports"
)

const (
	rowSelector = "tr"
	// The header row takes both cell kinds; body rows take data cells only,
	// so a row-header th in a body row is not exported.
	headerCellSelector = "th, td"
	bodyCellSelector   = "td"
)

// Transcode builds the portable form of table.
// It reports false when the table has no rows; callers must not emit output then.
func Transcode(table ports.Node) (domain.PortableTable, bool) {
	if table == nil {
		return domain.PortableTable{}, false
	}
	rows := table.QueryAll(rowSelector)
	if len(rows) == 0 {
		return domain.PortableTable{}, false
	}

	header := cells(rows[0], headerCellSelector)
	body := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		body = append(body, PadRow(cells(row, bodyCellSelector), len(header)))
	}

	return domain.PortableTable{Header: header, Rows: body}, true
}

// Markdown transcodes table and renders it. Tables without rows yield "".
func Markdown(table ports.Node) string {
	t, ok := Transcode(table)
	if !ok {
		return ""
	}
	return t.Markdown()
}

// All transcodes every table under root, skipping empty ones.
func All(root ports.Node) []domain.PortableTable {
	var out []domain.PortableTable
	for _, table := range root.QueryAll("table") {
		if t, ok := Transcode(table); ok {
			out = append(out, t)
		}
	}
	return out
}

func cells(row ports.Node, selector string) []string {
	nodes := row.QueryAll(selector)
	out := make([]string, 0, len(nodes))
	for _, c := range nodes {
		out = append(out, CleanCell(c.Text()))
	}
	return out
}
