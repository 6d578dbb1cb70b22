package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCommand(root *rootOptions) *cobra.Command {
	var (
		limit  int
		asText bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previously generated text",
		Long: `Print the most recent history entries, newest first. With --text the whole
history is written oldest first as plain text, one line per entry.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadConfig(root.configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			logger := root.newLogger(cmd.ErrOrStderr(), cfg.Server.LogLevel)

			db, store, err := openHistory(cfg.Server, logger)
			if err != nil {
				return err
			}
			defer func() {
				store.Close()
				_ = db.Close()
			}()

			out := cmd.OutOrStdout()
			if asText {
				return store.WriteText(cmd.Context(), out)
			}

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, e := range entries {
				_, _ = fmt.Fprintf(out, "%s  %s  %s\n", e.CreatedAt.Local().Format(time.DateTime), e.ID, e.Text)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", defaultHistoryLimit, "number of entries to show")
	cmd.Flags().BoolVar(&asText, "text", false, "dump the whole history as plain text")

	return cmd
}
