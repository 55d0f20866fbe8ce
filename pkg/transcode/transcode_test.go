package transcode_test

import (
	"testing"

	"github.com/aretw0/marginalia/pkg/adapters/htmldom"
	"github.com/aretw0/marginalia/pkg/ports"
	"github.com/aretw0/marginalia/pkg/transcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func firstTable(t *testing.T, body string) ports.Node {
	t.Helper()
	doc, err := htmldom.ParseString("<html><body>" + body + "</body></html>")
	require.NoError(t, err)
	tables := doc.QueryAll("table")
	require.NotEmpty(t, tables, "fixture must contain a table")
	return tables[0]
}

func TestMarkdown_Scenarios(t *testing.T) {
	cases := []struct {
		name string
		html string
		want string
	}{
		{
			name: "Simple",
			html: `<table><tr><th>A</th><th>B</th></tr><tr><td>1</td><td>2</td></tr></table>`,
			want: "| A | B |\n| --- | --- |\n| 1 | 2 |\n",
		},
		{
			name: "PipeEscaped",
			html: `<table><tr><th>A</th></tr><tr><td>a|b</td></tr></table>`,
			want: "| A |\n| --- |\n| a\\|b |\n",
		},
		{
			name: "EmptyBodyRowPadded",
			html: `<table><tr><th>A</th><th>B</th></tr><tr></tr></table>`,
			want: "| A | B |\n| --- | --- |\n|  |  |\n",
		},
		{
			name: "ShortRowPadded",
			html: `<table><tr><th>A</th><th>B</th><th>C</th></tr><tr><td>1</td></tr></table>`,
			want: "| A | B | C |\n| --- | --- | --- |\n| 1 |  |  |\n",
		},
		{
			name: "WideRowPassedThrough",
			html: `<table><tr><th>A</th></tr><tr><td>1</td><td>2</td></tr></table>`,
			want: "| A |\n| --- |\n| 1 | 2 |\n",
		},
		{
			name: "TheadTbodyAndTrim",
			html: `<table><thead><tr><td>  Name </td></tr></thead><tbody><tr><td>
				x
			</td></tr></tbody></table>`,
			want: "| Name |\n| --- |\n| x |\n",
		},
		{
			name: "BodyRowHeaderCellDropped",
			html: `<table><tr><th>A</th><th>B</th></tr><tr><th>r</th><td>1</td></tr></table>`,
			want: "| A | B |\n| --- | --- |\n| 1 |  |\n",
		},
		{
			name: "EmptyHeaderKeepsSeparator",
			html: `<table><tr></tr><tr><td>x</td></tr></table>`,
			want: "|  |\n|  |\n| x |\n",
		},
		{
			name: "HeaderOnly",
			html: `<table><tr><th>A</th></tr></table>`,
			want: "| A |\n| --- |\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, transcode.Markdown(firstTable(t, tc.html)))
		})
	}
}

func TestTranscode_ZeroRowsIsEmpty(t *testing.T) {
	table := firstTable(t, `<table></table>`)
	_, ok := transcode.Transcode(table)
	assert.False(t, ok)
	assert.Equal(t, "", transcode.Markdown(table))

	_, ok = transcode.Transcode(nil)
	assert.False(t, ok)
}

func TestTranscode_BodyRowsMatchHeaderWidth(t *testing.T) {
	table := firstTable(t, `<table>
		<tr><th>a</th><th>b</th><th>c</th><th>d</th></tr>
		<tr></tr>
		<tr><td>1</td></tr>
		<tr><td>1</td><td>2</td></tr>
		<tr><td>1</td><td>2</td><td>3</td><td>4</td></tr>
	</table>`)

	pt, ok := transcode.Transcode(table)
	require.True(t, ok)
	require.Equal(t, 4, pt.Width())
	for i, row := range pt.Rows {
		assert.Len(t, row, pt.Width(), "row %d", i)
	}
}

func TestTranscode_Idempotent(t *testing.T) {
	table := firstTable(t, `<table><tr><th>x|y</th></tr><tr><td> 1 </td></tr></table>`)
	first := transcode.Markdown(table)
	second := transcode.Markdown(table)
	assert.Equal(t, first, second)
}

func TestTranscode_ReadsCurrentState(t *testing.T) {
	doc, err := htmldom.ParseString(`<body><table id="t"><tr><th>A</th></tr></table></body>`)
	require.NoError(t, err)
	table := doc.QueryAll("#t")[0]
	before := transcode.Markdown(table)

	row := doc.CreateElement("tr")
	cell := doc.CreateElement("td")
	cell.SetText("late")
	row.AppendChild(cell)
	table.QueryAll("tr")[0].Parent().AppendChild(row)

	assert.NotEqual(t, before, transcode.Markdown(table))
	assert.Contains(t, transcode.Markdown(table), "| late |")
}

func TestAll_SkipsEmptyTables(t *testing.T) {
	doc, err := htmldom.ParseString(`<body>
		<table><tr><th>A</th></tr></table>
		<table></table>
		<table><tr><th>B</th></tr></table>
	</body>`)
	require.NoError(t, err)

	tables := transcode.All(doc.Body())
	require.Len(t, tables, 2)
	assert.Equal(t, []string{"B"}, tables[1].Header)
}
