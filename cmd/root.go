// Package cmd provides the command-line interface: a long-running HTTP
// server plus one-shot commands for asking questions and inspecting schemas
// from the terminal.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "intellisql",
	Short: "Ask a database questions in plain English",
	Long: `IntelliSQL attaches to a database, reads its schema, and turns natural
language questions into read-only SQL via an LLM. Generated queries are
validated before execution and results are row-capped.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the CLI application.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default config.yaml if present)")
}

// sampleDB is the quick-start database attached when --db is omitted.
const sampleDB = "data.db"

// resolveDB falls back to the sample database when no source was given.
func resolveDB(dsn string) (string, error) {
	if dsn != "" {
		return dsn, nil
	}
	if _, err := os.Stat(sampleDB); err == nil {
		return sampleDB, nil
	}
	return "", fmt.Errorf("no database given: pass --db, or place a %s sample database in the working directory", sampleDB)
}
