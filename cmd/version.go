package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version holds the CLI version information.
// This value is typically set at build time using -ldflags.
var Version = "0.0.0-dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("intellisql %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
