package main

import (
	"context"
	"os"

	"github.com/aretw0/marginalia"
	"github.com/aretw0/marginalia/internal/cli"
	"github.com/aretw0/marginalia/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file.html>",
	Short: "Keep tables and the turn index live while a page file changes",
	Long: `Attaches the engine to an HTML file. Each save replaces the page body
the way a chat client re-renders, and the turn index is printed after every
rescan. Type a table number to copy it, r to rescan, q to quit.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		clip, closer, err := clipboardFor(cmd, cfg)
		if err != nil {
			return err
		}
		defer closer.Close()

		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout, marginalia.Version)
		}

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		err = cli.RunWatch(sigCtx, cli.WatchOptions{
			Path:      args[0],
			Config:    cfg,
			Clipboard: clip,
			Logger:    logger,
			In:        os.Stdin,
			Out:       os.Stdout,
		})
		if sig := sigCtx.Signal(); sig != nil {
			logger.Info("Watcher stopped", "signal", sig.String())
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("clipboard", "", "Clipboard backend: memory, system, osc52 or redis")
}
