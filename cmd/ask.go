package cmd

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/intellisql/intellisql/internal/config"
	"github.com/intellisql/intellisql/internal/database"
	"github.com/intellisql/intellisql/internal/llm"
	"github.com/intellisql/intellisql/internal/prompt"
	"github.com/intellisql/intellisql/internal/query"
	"github.com/intellisql/intellisql/internal/session"
)

var (
	askDB     string
	askDriver string
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question against a database",
	Long: `The ask command attaches to a database, converts the question to SQL via
the configured LLM provider, runs the generated query read-only, and prints
the result as a table. With no question it suggests example questions
derived from the schema.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		provider, err := llm.NewProvider(cfg.LLM)
		if err != nil && len(args) > 0 {
			return err
		}

		dsn, err := resolveDB(askDB)
		if err != nil {
			return err
		}

		mgr := session.NewManager(provider, cfg.Query.MaxRows)
		dbCfg := database.DefaultConfig(database.Driver(askDriver), dsn)
		dbCfg.QueryTimeout = cfg.Query.Timeout.Std()

		sess, err := mgr.Attach(cmd.Context(), dbCfg)
		if err != nil {
			pterm.Println("❌ " + query.Guidance(err))
			return err
		}
		defer mgr.Detach()

		if len(args) == 0 {
			pterm.Printf("Attached %s (%d tables). Try asking:\n\n", dsn, len(sess.Snapshot().Tables))
			for _, q := range prompt.ExampleQuestions(sess.Snapshot()) {
				pterm.Println("  • " + q)
			}
			return nil
		}

		spinner, _ := pterm.DefaultSpinner.Start("Generating SQL...")
		res, err := mgr.Ask(cmd.Context(), args[0])
		if err != nil {
			if spinner != nil {
				spinner.Fail("Query failed")
			}
			pterm.Println("❌ " + query.Guidance(err))
			return err
		}
		if spinner != nil {
			spinner.Success("Query executed")
		}

		pterm.Println()
		pterm.DefaultBox.WithTitle("SQL").Println(res.SQL)
		pterm.Println()

		if err := renderResult(res.Result); err != nil {
			return err
		}

		if res.Result.Truncated() {
			pterm.Printf("\nShowing %d of %d rows\n", len(res.Result.Rows), res.Result.TotalRows)
		} else {
			pterm.Printf("\n%d row(s)\n", res.Result.TotalRows)
		}
		return nil
	},
}

// renderResult prints a query result as a terminal table.
func renderResult(res *query.Result) error {
	data := pterm.TableData{res.Columns}
	for _, row := range res.Rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = formatCell(v)
		}
		data = append(data, record)
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func formatCell(v any) string {
	if v == nil {
		return "NULL"
	}
	s := fmt.Sprintf("%v", v)
	// keep the table readable when a cell holds a blob of text
	if len(s) > 80 {
		s = strings.TrimSpace(s[:77]) + "..."
	}
	return s
}

func init() {
	askCmd.Flags().StringVar(&askDB, "db", "", "database file path or DSN (falls back to ./data.db)")
	askCmd.Flags().StringVar(&askDriver, "driver", "sqlite", "database driver: sqlite, postgres, or mysql")
	rootCmd.AddCommand(askCmd)
}
