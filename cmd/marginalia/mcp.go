package main

import (
	"context"
	"log"
	"os"

	"github.com/aretw0/marginalia/internal/cli"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts Marginalia as an MCP Server, so agents can export tables and
index turns of HTML pages as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.HTTP.Port, _ = cmd.Flags().GetInt("port")
		}
		transport, _ := cmd.Flags().GetString("transport")

		// Ensure logs don't corrupt JSON-RPC on Stdout
		log.SetOutput(os.Stderr)

		clip, closer, err := clipboardFor(cmd, cfg)
		if err != nil {
			return err
		}
		defer closer.Close()

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		return cli.RunMCP(sigCtx, cli.MCPOptions{
			Config:    cfg,
			Clipboard: clip,
			Logger:    logger,
			Transport: transport,
		})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringP("transport", "t", "stdio", "Transport: stdio or sse")
	mcpCmd.Flags().IntP("port", "p", 8080, "Port for the SSE transport")
	mcpCmd.Flags().String("clipboard", "", "Clipboard backend: memory, system, osc52 or redis")
}
