package main

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "promptcraft",
	Short: "Guided prompt refinement service",
	Long: `Promptcraft analyzes a rough prompt with an LLM, asks targeted follow-up
questions and synthesizes an improved prompt from the answers.

Enhancements are stored in Postgres (or SQLite for local use) and can be
browsed as history or saved with a title.`,
	Version:       GitRelease,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./promptcraft.yaml if present)",
	)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)
}
