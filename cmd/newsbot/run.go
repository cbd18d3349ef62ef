package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/Finai24/finai24-newsbot-v3-patch-economy/internal/app"
	"github.com/Finai24/finai24-newsbot-v3-patch-economy/internal/config"
	"github.com/Finai24/finai24-newsbot-v3-patch-economy/internal/history"
	"github.com/Finai24/finai24-newsbot-v3-patch-economy/internal/logger"
	"github.com/spf13/cobra"
)

var (
	runFeedsFile       string
	runMaxPublications int
	runDryRun          bool
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Execute one publishing run",
	Long: `Loads and prunes the publication history, walks the feed list in order and for every new item
classifies it, writes an article and publishes it, stopping at the per-run quota. The history is
saved only when the run completes; any item failure aborts the run with exit status 1.`,
	RunE: runNewsbotCmd,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, runCommand} {
		c.Flags().StringVar(&runFeedsFile, "feeds", "", "feed list file (overrides FEEDS_FILE)")
		c.Flags().IntVar(&runMaxPublications, "max-publications", 0, "per-run publication quota (overrides MAX_PUBLICATIONS)")
		c.Flags().BoolVar(&runDryRun, "no-history", false, "do not read or write the publication history")
	}
	rootCmd.AddCommand(runCommand)
}

func runNewsbotCmd(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if runFeedsFile != "" {
		cfg.FeedsFile = runFeedsFile
	}
	if runMaxPublications > 0 {
		cfg.MaxPublications = runMaxPublications
	}
	if runDryRun {
		cfg.HistoryStore = history.StoreNone
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("newsbot starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot, err := app.NewNewsbot(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize newsbot", "error", err.Error())
		return err
	}
	defer bot.Close()

	if _, err := bot.Run(ctx); err != nil {
		logger.ErrorObj("newsbot run aborted", "error", err.Error())
		return fmt.Errorf("newsbot run: %w", err)
	}
	return nil
}
