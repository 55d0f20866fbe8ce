package main

import (
	"os"

	"github.com/aretw0/marginalia/internal/cli"
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index [file.html]",
	Short: "List the conversational turns of an HTML page",
	Args:  cobra.MaximumNArgs(1),
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

		jsonMode, _ := cmd.Flags().GetBool("json")
		return cli.RunIndex(cli.IndexOptions{
			Input:    in,
			Out:      os.Stdout,
			Cascade:  cfg.Cascade(),
			Truncate: cfg.Panel.Truncate,
			JSON:     jsonMode,
		})
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().Bool("json", false, "Print the index as JSON")
}
