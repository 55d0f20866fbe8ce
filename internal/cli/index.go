package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/aretw0/marginalia/pkg/discovery"
	"github.com/aretw0/marginalia/pkg/snapshot"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// IndexOptions configures RunIndex.
type IndexOptions struct {
	Input    io.Reader
	Out      io.Writer
	Cascade  *discovery.Cascade
	Truncate int
	JSON     bool
}

// RunIndex lists the conversational turns found in an HTML snapshot.
func RunIndex(opts IndexOptions) error {
	doc, err := snapshot.Load(opts.Input)
	if err != nil {
		return err
	}

	cascade := opts.Cascade
	if cascade == nil {
		cascade = discovery.Default()
	}
	idx := snapshot.Discover(doc.Body(), cascade, opts.Truncate)

	if opts.JSON {
		enc := json.NewEncoder(opts.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(idx)
	}

	if len(idx.Turns) == 0 {
		_, err := fmt.Fprintln(opts.Out, "No turns found")
		return err
	}

	_, err = fmt.Fprintln(opts.Out, renderIndex(idx))
	return err
}

func renderIndex(idx snapshot.Index) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Label", "Text"})
	for _, t := range idx.Turns {
		tw.AppendRow(table.Row{strconv.Itoa(t.Number), t.Label, t.Text})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, WidthMax: 60},
	})
	tw.SetCaption("strategy: %s", idx.Strategy)
	return tw.Render()
}
