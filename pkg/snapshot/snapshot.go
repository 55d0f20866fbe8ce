package snapshot

import (
	"fmt"
	"io"

	"github.com/aretw0/marginalia/pkg/adapters/htmldom"
	"github.com/aretw0/marginalia/pkg/discovery"
	"github.com/aretw0/marginalia/pkg/domain"
	"github.com/aretw0/marginalia/pkg/panel"
	"github.com/aretw0/marginalia/pkg/ports"
	"github.com/aretw0/marginalia/pkg/transcode"
)

// Table is one exported table. Number is the 1-based position among all
// tables of the document, empty ones included.
type Table struct {
	Number   int        `json:"number"`
	Header   []string   `json:"header"`
	Rows     [][]string `json:"rows"`
	Markdown string     `json:"markdown"`
}

// Turn is one indexed conversational turn.
type Turn struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
	Label  string `json:"label"`
}

// Index is the outcome of discovery over a snapshot.
type Index struct {
	Strategy string `json:"strategy"`
	Turns    []Turn `json:"turns"`
}

// Load sanitizes and parses an HTML page.
func Load(r io.Reader) (*htmldom.Document, error) {
	raw, err := io.ReadAll(io.LimitReader(r, int64(MaxInputSize())+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read html: %w", err)
	}
	return LoadString(string(raw))
}

// LoadString is Load over a string.
func LoadString(s string) (*htmldom.Document, error) {
	clean, err := Sanitize(s)
	if err != nil {
		return nil, err
	}
	return htmldom.ParseString(clean)
}

// Tables exports every non-empty table under root.
func Tables(root ports.Node) []Table {
	var out []Table
	for i, node := range root.QueryAll("table") {
		t, ok := transcode.Transcode(node)
		if !ok {
			continue
		}
		out = append(out, Table{
			Number:   i + 1,
			Header:   t.Header,
			Rows:     t.Rows,
			Markdown: t.Markdown(),
		})
	}
	return out
}

// TableAt exports the table at 1-based position n.
func TableAt(root ports.Node, n int) (Table, error) {
	nodes := root.QueryAll("table")
	if len(nodes) == 0 {
		return Table{}, domain.ErrNoTables
	}
	if n < 1 || n > len(nodes) {
		return Table{}, fmt.Errorf("%w: %d of %d", domain.ErrTableIndex, n, len(nodes))
	}
	out := Table{Number: n}
	if t, ok := transcode.Transcode(nodes[n-1]); ok {
		out.Header, out.Rows, out.Markdown = t.Header, t.Rows, t.Markdown()
	}
	return out, nil
}

// Discover runs cascade over root and labels the turns as the panel would.
func Discover(root ports.Node, cascade *discovery.Cascade, truncate int) Index {
	res := cascade.Discover(root)
	idx := Index{Strategy: res.Strategy, Turns: make([]Turn, 0, len(res.Turns))}
	for i, t := range res.Turns {
		idx.Turns = append(idx.Turns, Turn{
			Number: i + 1,
			Text:   t.Text,
			Label:  fmt.Sprintf("%d. %s", i+1, panel.Truncate(t.Text, truncate)),
		})
	}
	return idx
}
