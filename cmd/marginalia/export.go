package main

import (
	"io"
	"os"

	"github.com/aretw0/marginalia/internal/cli"
	"github.com/aretw0/marginalia/internal/presentation/tui"
	"github.com/aretw0/marginalia/pkg/ports"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [file.html]",
	Short: "Export the tables of an HTML page as Markdown",
	Long: `Reads a saved chat page (or stdin) and prints every table as a
GitHub-flavored Markdown table. With --copy the selected table is also
written to the configured clipboard.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := setup(cmd)
		if err != nil {
			return err
		}
		in, err := openInput(args)
		if err != nil {
			return err
		}
		defer in.Close()

		table, _ := cmd.Flags().GetInt("table")
		jsonMode, _ := cmd.Flags().GetBool("json")
		preview, _ := cmd.Flags().GetBool("preview")
		copyMode, _ := cmd.Flags().GetBool("copy")

		opts := cli.ExportOptions{
			Input:   in,
			Out:     os.Stdout,
			Status:  os.Stderr,
			Table:   table,
			JSON:    jsonMode,
			Preview: preview && tui.IsTerminal(os.Stdout),
			Width:   tui.Width(os.Stdout, 80),
		}
		if copyMode {
			var clip ports.Clipboard
			var closer io.Closer
			if clip, closer, err = clipboardFor(cmd, cfg); err != nil {
				return err
			}
			defer closer.Close()
			opts.Clipboard = clip
		}
		return cli.RunExport(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().IntP("table", "t", 0, "Export only the table at this 1-based position")
	exportCmd.Flags().Bool("json", false, "Print tables as JSON")
	exportCmd.Flags().Bool("preview", false, "Render the Markdown for the terminal")
	exportCmd.Flags().BoolP("copy", "c", false, "Copy the selected table to the clipboard")
	exportCmd.Flags().String("clipboard", "", "Clipboard backend: memory, system, osc52 or redis")
}
