package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/marginalia/internal/presentation/tui"
	"github.com/aretw0/marginalia/pkg/ports"
	"github.com/aretw0/marginalia/pkg/snapshot"
)

// ErrCopyNeedsTable is returned when copying without a single table selected.
var ErrCopyNeedsTable = errors.New("copy needs exactly one table: pass --table")

// ExportOptions configures RunExport.
type ExportOptions struct {
	Input  io.Reader
	Out    io.Writer
	Status io.Writer

	// Table selects one table by its 1-based position; zero exports all.
	Table int
	JSON  bool
	// Preview renders the markdown for the terminal instead of printing it raw.
	Preview bool
	Width   int

	// Clipboard, when set, receives the selected table.
	Clipboard ports.Clipboard
}

// RunExport converts the tables of an HTML snapshot to markdown.
func RunExport(ctx context.Context, opts ExportOptions) error {
	doc, err := snapshot.Load(opts.Input)
	if err != nil {
		return err
	}

	var tables []snapshot.Table
	if opts.Table > 0 {
		t, err := snapshot.TableAt(doc.Body(), opts.Table)
		if err != nil {
			return err
		}
		tables = []snapshot.Table{t}
	} else {
		tables = snapshot.Tables(doc.Body())
	}

	if opts.Clipboard != nil {
		if len(tables) != 1 {
			return ErrCopyNeedsTable
		}
		if err := opts.Clipboard.CopyText(ctx, tables[0].Markdown); err != nil {
			if opts.Status != nil {
				fmt.Fprintf(opts.Status, "%s table %d: %v\n", tui.Status(opts.Status, false, "failed"), tables[0].Number, err)
			}
			return err
		}
		if opts.Status != nil {
			fmt.Fprintf(opts.Status, "%s table %d (%d bytes)\n", tui.Status(opts.Status, true, "copied"), tables[0].Number, len(tables[0].Markdown))
		}
	}

	if opts.JSON {
		enc := json.NewEncoder(opts.Out)
		enc.SetIndent("", "  ")
		if tables == nil {
			tables = []snapshot.Table{}
		}
		return enc.Encode(tables)
	}

	parts := make([]string, 0, len(tables))
	for _, t := range tables {
		if t.Markdown != "" {
			parts = append(parts, t.Markdown)
		}
	}
	out := strings.Join(parts, "\n")

	if opts.Preview && out != "" {
		render, err := tui.NewRenderer(opts.Width)
		if err != nil {
			return fmt.Errorf("failed to create renderer: %w", err)
		}
		if out, err = render(out); err != nil {
			return fmt.Errorf("failed to render markdown: %w", err)
		}
	}

	_, err = io.WriteString(opts.Out, out)
	return err
}
