package main

import (
	"fmt"
	"time"

	"github.com/Finai24/finai24-newsbot-v3-patch-economy/internal/app"
	"github.com/Finai24/finai24-newsbot-v3-patch-economy/internal/config"
	"github.com/spf13/cobra"
)

var historyCommand = &cobra.Command{
	Use:   "history",
	Short: "Print the publication history inside the retention window",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(envFiles...)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		entries, err := app.LoadHistory(cfg, time.Now())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d link(s) published in the last %d days (%s)\n", len(entries), cfg.RetentionDays, app.StorePath(cfg))
		for _, e := range entries {
			fmt.Fprintf(out, "%s  %s\n", e.Timestamp.UTC().Format(time.RFC3339), e.Link)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCommand)
}
