// Package prompt deterministically builds the system instruction document
// sent to the completion provider alongside the user's question.
//
// The output is a pure function of the schema snapshot: identical snapshots
// produce byte-identical prompts. No randomness, no timestamps, nothing
// environment-dependent.
package prompt

import (
	"fmt"
	"strings"

	"github.com/intellisql/intellisql/internal/schema"
)

// preamble fixes the assistant's role before any schema context.
const preamble = "You are an expert in converting English questions to SQL queries!\n\n"

// guidelines is the fixed closing rule block. Rule 8 is what makes the
// response machine-executable without post-processing beyond fence stripping.
const guidelines = `

Guidelines for SQL generation:
1. Use proper SQL syntax with correct keywords
2. Always use proper quotes for text values (single quotes)
3. Handle NULL values with IS NULL or IS NOT NULL
4. For text searches, use LIKE with % wildcards
5. Use appropriate JOIN types when querying multiple tables
6. Include GROUP BY when using aggregate functions
7. Always validate column and table names exist in the schema
8. Return only the executable SQL query with no surrounding commentary
`

// Synthesize builds the full system prompt for a snapshot: role preamble,
// schema section, worked examples derived from the first table, and the
// guidelines block.
func Synthesize(snap *schema.Snapshot) string {
	var sb strings.Builder
	sb.WriteString(preamble)

	writeSchemaSection(&sb, snap)
	writeExamplesSection(&sb, snap)

	sb.WriteString(guidelines)
	return sb.String()
}

func writeSchemaSection(sb *strings.Builder, snap *schema.Snapshot) {
	sb.WriteString("Database Schema:\n")

	for _, table := range snap.Tables {
		fmt.Fprintf(sb, "\nTable: %s\n", table.Name)
		sb.WriteString("Columns:\n")

		for _, col := range table.Columns {
			fmt.Fprintf(sb, "  - %s (%s", col.Name, strings.ToUpper(col.DeclaredType))
			// Flag order is fixed: PRIMARY KEY, NOT NULL, DEFAULT.
			if col.IsPrimaryKey {
				sb.WriteString(" PRIMARY KEY")
			}
			if !col.Nullable {
				sb.WriteString(" NOT NULL")
			}
			if col.DefaultValue != nil {
				fmt.Fprintf(sb, " DEFAULT %s", *col.DefaultValue)
			}
			sb.WriteString(")\n")
		}

		if len(table.ForeignKeys) > 0 {
			sb.WriteString("Foreign Keys:\n")
			for _, fk := range table.ForeignKeys {
				fmt.Fprintf(sb, "  - %s REFERENCES %s(%s)\n", fk.FromColumn, fk.ToTable, fk.ToColumn)
			}
		}
	}
}

// writeExamplesSection emits up to three worked examples, all drawn from the
// first table in snapshot order. With zero tables the section is omitted
// entirely.
func writeExamplesSection(sb *strings.Builder, snap *schema.Snapshot) {
	if len(snap.Tables) == 0 {
		return
	}

	first := snap.Tables[0]
	cols := first.Columns

	sb.WriteString("\nSQL Examples:\n")

	fmt.Fprintf(sb, "\nExample 1: How many records are in %s?\n", first.Name)
	fmt.Fprintf(sb, "SELECT COUNT(*) FROM %s;\n", first.Name)

	if len(cols) >= 2 {
		col1 := cols[0].Name

		switch schema.Classify(cols[0].DeclaredType) {
		case schema.ClassNumeric:
			fmt.Fprintf(sb, "\nExample 2: List all records where %s is greater than 50.\n", col1)
			fmt.Fprintf(sb, "SELECT * FROM %s WHERE %s > 50;\n", first.Name, col1)
		case schema.ClassText:
			fmt.Fprintf(sb, "\nExample 2: List all records where %s contains 'value'.\n", col1)
			fmt.Fprintf(sb, "SELECT * FROM %s WHERE %s LIKE '%%value%%';\n", first.Name, col1)
		default:
			fmt.Fprintf(sb, "\nExample 2: List all records sorted by %s.\n", col1)
			fmt.Fprintf(sb, "SELECT * FROM %s ORDER BY %s;\n", first.Name, col1)
		}

		if len(cols) >= 3 {
			col3 := cols[2].Name
			fmt.Fprintf(sb, "\nExample 3: Count records grouped by %s.\n", col3)
			fmt.Fprintf(sb, "SELECT %s, COUNT(*) FROM %s GROUP BY %s;\n", col3, first.Name, col3)
		}
	}
}

// ExampleQuestions suggests natural-language questions a user could ask
// against the snapshot, derived from the first table. Returns nil for an
// empty snapshot.
func ExampleQuestions(snap *schema.Snapshot) []string {
	if len(snap.Tables) == 0 {
		return nil
	}

	first := snap.Tables[0]
	questions := []string{
		fmt.Sprintf("How many records are in %s?", first.Name),
		fmt.Sprintf("Show me all data from %s", first.Name),
	}

	if len(first.Columns) >= 2 {
		questions = append(questions,
			fmt.Sprintf("List all %s from %s", first.Columns[0].Name, first.Name),
			fmt.Sprintf("Group %s by %s", first.Name, first.Columns[1].Name),
		)
	}
	return questions
}
