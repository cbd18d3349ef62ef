// Package main is the newsbot command line entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var envFiles []string

var rootCmd = &cobra.Command{
	Use:           "newsbot",
	Short:         "FinAI24 newsbot",
	Long:          "Reads financial news feeds, writes original articles with a language model and publishes them to the FinAI24 CMS.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runNewsbotCmd,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv file(s) to load (defaults to configs/.env and .env)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "newsbot failed: %v\n", err)
		os.Exit(1)
	}
}
