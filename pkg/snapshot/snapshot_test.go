package snapshot_test

import (
	"strings"
	"testing"

	"github.com/aretw0/marginalia/pkg/discovery"
	"github.com/aretw0/marginalia/pkg/domain"
	"github.com/aretw0/marginalia/pkg/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><body><main>
	<p class="query-text-line ng-star-inserted">Which HTTP router should I pick for a small service?</p>
	<table><tr><th>Router</th><th>Notes</th></tr><tr><td>chi</td><td>net/http | compatible</td></tr></table>
	<table></table>
	<table><tr><td>only</td></tr></table>
</main></body></html>`

func TestTables(t *testing.T) {
	doc, err := snapshot.LoadString(page)
	require.NoError(t, err)

	tables := snapshot.Tables(doc.Body())
	require.Len(t, tables, 2)
	assert.Equal(t, 1, tables[0].Number)
	assert.Equal(t, "| Router | Notes |\n| --- | --- |\n| chi | net/http \\| compatible |\n", tables[0].Markdown)
	assert.Equal(t, 3, tables[1].Number, "numbering counts empty tables")
	assert.Equal(t, "| only |\n| --- |\n", tables[1].Markdown)
}

func TestTableAt(t *testing.T) {
	doc, err := snapshot.LoadString(page)
	require.NoError(t, err)

	tbl, err := snapshot.TableAt(doc.Body(), 2)
	require.NoError(t, err)
	assert.Empty(t, tbl.Markdown)

	_, err = snapshot.TableAt(doc.Body(), 4)
	assert.ErrorIs(t, err, domain.ErrTableIndex)
	_, err = snapshot.TableAt(doc.Body(), 0)
	assert.ErrorIs(t, err, domain.ErrTableIndex)

	empty, err := snapshot.LoadString("<p>no tables</p>")
	require.NoError(t, err)
	_, err = snapshot.TableAt(empty.Body(), 1)
	assert.ErrorIs(t, err, domain.ErrNoTables)
}

func TestDiscover(t *testing.T) {
	doc, err := snapshot.LoadString(page)
	require.NoError(t, err)

	idx := snapshot.Discover(doc.Body(), discovery.Default(), domain.DefaultTruncateLength)
	assert.Equal(t, "query-text-line", idx.Strategy)
	require.Len(t, idx.Turns, 1)
	assert.Equal(t, "1. Which HTTP router should ...", idx.Turns[0].Label)
	assert.Equal(t, "Which HTTP router should I pick for a small service?", idx.Turns[0].Text)
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Normal Text", "<td>Hello</td>", "<td>Hello</td>"},
		{"Safe Controls", "Line1\nLine2\tTabbed\r", "Line1\nLine2\tTabbed\r"},
		{"ANSI Code", "\x1b[31mRed\x1b[0m", "[31mRed[0m"},
		{"Null Byte", "Null\x00Byte", "NullByte"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := snapshot.Sanitize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := snapshot.Sanitize("bad \xff utf8")
	assert.ErrorIs(t, err, snapshot.ErrInvalidUTF8)
}

func TestSanitize_SizeLimit(t *testing.T) {
	t.Setenv(snapshot.EnvMaxInputSize, "16")

	_, err := snapshot.Sanitize(strings.Repeat("a", 16))
	assert.NoError(t, err)
	_, err = snapshot.Sanitize(strings.Repeat("a", 17))
	assert.ErrorIs(t, err, snapshot.ErrInputTooLarge)

	_, err = snapshot.Load(strings.NewReader(strings.Repeat("a", 100)))
	assert.ErrorIs(t, err, snapshot.ErrInputTooLarge)
}
