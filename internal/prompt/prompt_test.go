package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellisql/intellisql/internal/schema"
)

func strPtr(s string) *string { return &s }

func studentsSnapshot() *schema.Snapshot {
	return &schema.Snapshot{Tables: []schema.Table{
		{
			Name: "students",
			Columns: []schema.Column{
				{Name: "id", DeclaredType: "INTEGER", IsPrimaryKey: true, Nullable: true},
				{Name: "name", DeclaredType: "TEXT", Nullable: false},
				{Name: "class", DeclaredType: "TEXT", Nullable: true},
				{Name: "grade", DeclaredType: "INTEGER", Nullable: true},
			},
		},
	}}
}

func TestSynthesize_Deterministic(t *testing.T) {
	snap := studentsSnapshot()

	first := Synthesize(snap)
	second := Synthesize(snap)

	assert.Equal(t, first, second)
}

func TestSynthesize_Sections(t *testing.T) {
	out := Synthesize(studentsSnapshot())

	assert.True(t, strings.HasPrefix(out, "You are an expert in converting English questions to SQL queries!\n\n"))

	// Section order: schema, examples, guidelines.
	schemaIdx := strings.Index(out, "Database Schema:")
	examplesIdx := strings.Index(out, "SQL Examples:")
	guidelinesIdx := strings.Index(out, "Guidelines for SQL generation:")
	require.True(t, schemaIdx >= 0)
	require.True(t, examplesIdx > schemaIdx)
	require.True(t, guidelinesIdx > examplesIdx)

	assert.Contains(t, out, "Table: students\n")
	assert.Contains(t, out, "  - id (INTEGER PRIMARY KEY)\n")
	assert.Contains(t, out, "  - name (TEXT NOT NULL)\n")
	assert.Contains(t, out, "  - grade (INTEGER)\n")
	assert.Contains(t, out, "Return only the executable SQL query with no surrounding commentary")
}

func TestSynthesize_ColumnFlagOrder(t *testing.T) {
	snap := &schema.Snapshot{Tables: []schema.Table{
		{
			Name: "events",
			Columns: []schema.Column{
				{Name: "id", DeclaredType: "integer", IsPrimaryKey: true, Nullable: false, DefaultValue: strPtr("0")},
			},
		},
	}}

	out := Synthesize(snap)

	// Type uppercased; flags always PRIMARY KEY, NOT NULL, DEFAULT in that order.
	assert.Contains(t, out, "  - id (INTEGER PRIMARY KEY NOT NULL DEFAULT 0)\n")
}

func TestSynthesize_ForeignKeys(t *testing.T) {
	snap := studentsSnapshot()
	snap.Tables[0].ForeignKeys = []schema.ForeignKey{
		{FromColumn: "class", ToTable: "classes", ToColumn: "name"},
	}

	out := Synthesize(snap)
	assert.Contains(t, out, "Foreign Keys:\n  - class REFERENCES classes(name)\n")

	// No header at all for tables without edges.
	out = Synthesize(studentsSnapshot())
	assert.NotContains(t, out, "Foreign Keys:")
}

func TestSynthesize_ExampleBranches(t *testing.T) {
	tests := []struct {
		name      string
		firstType string
		want      string
	}{
		{
			name:      "numeric first column",
			firstType: "INTEGER",
			want:      "SELECT * FROM items WHERE a > 50;",
		},
		{
			name:      "text first column",
			firstType: "VARCHAR(50)",
			want:      "SELECT * FROM items WHERE a LIKE '%value%';",
		},
		{
			name:      "other first column",
			firstType: "BLOB",
			want:      "SELECT * FROM items ORDER BY a;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := &schema.Snapshot{Tables: []schema.Table{
				{
					Name: "items",
					Columns: []schema.Column{
						{Name: "a", DeclaredType: tt.firstType},
						{Name: "b", DeclaredType: "TEXT"},
					},
				},
			}}

			out := Synthesize(snap)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestSynthesize_ExampleGating(t *testing.T) {
	t.Run("zero tables omits the examples section", func(t *testing.T) {
		out := Synthesize(&schema.Snapshot{})
		assert.NotContains(t, out, "SQL Examples:")
		assert.Contains(t, out, "Database Schema:")
		assert.Contains(t, out, "Guidelines for SQL generation:")
	})

	t.Run("single column gets only the count example", func(t *testing.T) {
		snap := &schema.Snapshot{Tables: []schema.Table{
			{Name: "logs", Columns: []schema.Column{{Name: "line", DeclaredType: "TEXT"}}},
		}}
		out := Synthesize(snap)

		assert.Contains(t, out, "Example 1: How many records are in logs?\n")
		assert.Contains(t, out, "SELECT COUNT(*) FROM logs;\n")
		assert.NotContains(t, out, "Example 2")
		assert.NotContains(t, out, "Example 3")
	})

	t.Run("two columns adds the filter example", func(t *testing.T) {
		snap := &schema.Snapshot{Tables: []schema.Table{
			{Name: "pairs", Columns: []schema.Column{
				{Name: "k", DeclaredType: "TEXT"},
				{Name: "v", DeclaredType: "TEXT"},
			}},
		}}
		out := Synthesize(snap)

		assert.Contains(t, out, "Example 2")
		assert.NotContains(t, out, "Example 3")
	})

	t.Run("three columns adds the group-by example on the third", func(t *testing.T) {
		out := Synthesize(studentsSnapshot())

		assert.Contains(t, out, "Example 3: Count records grouped by class.\n")
		assert.Contains(t, out, "SELECT class, COUNT(*) FROM students GROUP BY class;\n")
	})

	t.Run("examples always use the first table", func(t *testing.T) {
		snap := studentsSnapshot()
		snap.Tables = append(snap.Tables, schema.Table{
			Name:    "courses",
			Columns: []schema.Column{{Name: "title", DeclaredType: "TEXT"}},
		})

		out := Synthesize(snap)
		assert.Contains(t, out, "SELECT COUNT(*) FROM students;")
		assert.NotContains(t, out, "SELECT COUNT(*) FROM courses;")
	})
}

func TestExampleQuestions(t *testing.T) {
	assert.Nil(t, ExampleQuestions(&schema.Snapshot{}))

	qs := ExampleQuestions(studentsSnapshot())
	require.Len(t, qs, 4)
	assert.Equal(t, "How many records are in students?", qs[0])
	assert.Contains(t, qs[2], "id")
}
