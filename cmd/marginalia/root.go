package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/marginalia/internal/cli"
	"github.com/aretw0/marginalia/internal/config"
	"github.com/aretw0/marginalia/pkg/ports"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "marginalia",
	Short: "Marginalia augments chat transcripts with table export and a turn index",
	Long: `Marginalia finds tables and conversational turns in rendered chat pages.
It exports tables as Markdown, indexes the turns, and keeps both current
while a page changes.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "marginalia.yaml", "Configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// setup loads the configuration and builds the logger for a command.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	logger, err := cli.NewLogger(cfg, debug)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// clipboardFor builds the configured clipboard, honoring a --clipboard override.
func clipboardFor(cmd *cobra.Command, cfg *config.Config) (ports.Clipboard, io.Closer, error) {
	if backend, _ := cmd.Flags().GetString("clipboard"); cmd.Flags().Changed("clipboard") {
		cfg.Clipboard.Backend = backend
		if err := cfg.Validate(); err != nil {
			return nil, nil, err
		}
	}
	return cli.NewClipboard(cfg, os.Stdout)
}

// openInput opens the HTML source named by args; none or "-" is stdin.
func openInput(args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, nil
}
