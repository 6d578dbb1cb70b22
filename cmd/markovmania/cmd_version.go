package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info := currentVersion()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "MarkovMania %s (commit %s, built %s)\n", info.Version, info.Commit, info.BuildDate)
		},
	}
}
