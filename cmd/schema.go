package cmd

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/intellisql/intellisql/internal/config"
	"github.com/intellisql/intellisql/internal/database"
	"github.com/intellisql/intellisql/internal/query"
	"github.com/intellisql/intellisql/internal/session"
)

var (
	schemaDB     string
	schemaDriver string
	schemaPrompt bool
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Show the schema of a database",
	Long: `The schema command attaches to a database and prints its tables, columns,
and foreign keys. With --prompt it prints the full instruction document that
would be sent to the LLM instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		dsn, err := resolveDB(schemaDB)
		if err != nil {
			return err
		}

		mgr := session.NewManager(nil, cfg.Query.MaxRows)
		sess, err := mgr.Attach(cmd.Context(), database.DefaultConfig(database.Driver(schemaDriver), dsn))
		if err != nil {
			pterm.Println("❌ " + query.Guidance(err))
			return err
		}
		defer mgr.Detach()

		if schemaPrompt {
			pterm.Println(sess.Prompt())
			return nil
		}

		snap := sess.Snapshot()
		if len(snap.Tables) == 0 {
			pterm.Println("The database has no tables.")
			return nil
		}

		for _, t := range snap.Tables {
			data := pterm.TableData{{"Column", "Type", "Constraints"}}
			for _, c := range t.Columns {
				var cons []string
				if c.IsPrimaryKey {
					cons = append(cons, "PRIMARY KEY")
				}
				if !c.Nullable {
					cons = append(cons, "NOT NULL")
				}
				if c.DefaultValue != nil {
					cons = append(cons, "DEFAULT "+*c.DefaultValue)
				}
				data = append(data, []string{c.Name, strings.ToUpper(c.DeclaredType), strings.Join(cons, ", ")})
			}

			pterm.DefaultSection.Println(t.Name)
			if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
				return err
			}
			for _, fk := range t.ForeignKeys {
				pterm.Printf("  %s → %s(%s)\n", fk.FromColumn, fk.ToTable, fk.ToColumn)
			}
		}
		return nil
	},
}

func init() {
	schemaCmd.Flags().StringVar(&schemaDB, "db", "", "database file path or DSN (falls back to ./data.db)")
	schemaCmd.Flags().StringVar(&schemaDriver, "driver", "sqlite", "database driver: sqlite, postgres, or mysql")
	schemaCmd.Flags().BoolVar(&schemaPrompt, "prompt", false, "print the synthesized LLM prompt instead of tables")
	rootCmd.AddCommand(schemaCmd)
}
