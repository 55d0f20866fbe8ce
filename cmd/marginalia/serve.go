package main

import (
	"context"
	"os"

	"github.com/aretw0/marginalia/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Exposes table export and turn discovery as a JSON API over HTTP,
with copy events streamed over SSE and Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.HTTP.Port, _ = cmd.Flags().GetInt("port")
		}
		clip, closer, err := clipboardFor(cmd, cfg)
		if err != nil {
			return err
		}
		defer closer.Close()

		watchPath, _ := cmd.Flags().GetString("watch")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		return cli.RunServe(sigCtx, cli.ServeOptions{
			Config:    cfg,
			Clipboard: clip,
			Logger:    logger,
			Out:       os.Stdout,
			WatchPath: watchPath,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("watch", "", "Also attach the engine to this HTML file")
	serveCmd.Flags().String("clipboard", "", "Clipboard backend: memory, system, osc52 or redis")
}
