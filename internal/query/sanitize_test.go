package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellisql/intellisql/internal/errs"
)

func TestSanitize_Accepts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain select",
			raw:  "SELECT * FROM students",
			want: "SELECT * FROM students",
		},
		{
			name: "lowercase select",
			raw:  "select count(*) from students;",
			want: "select count(*) from students;",
		},
		{
			name: "cte",
			raw:  "WITH top AS (SELECT * FROM students) SELECT * FROM top",
			want: "WITH top AS (SELECT * FROM students) SELECT * FROM top",
		},
		{
			name: "sql code fence",
			raw:  "```sql\nSELECT name FROM students;\n```",
			want: "SELECT name FROM students;",
		},
		{
			name: "bare code fence",
			raw:  "```\nSELECT 1\n```",
			want: "SELECT 1",
		},
		{
			name: "uppercase fence tag",
			raw:  "```SQL\nSELECT 1\n```",
			want: "SELECT 1",
		},
		{
			name: "surrounding whitespace",
			raw:  "   \n  SELECT 1  \n ",
			want: "SELECT 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sanitize(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitize_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "delete", raw: "DELETE FROM users;"},
		{name: "fenced delete", raw: "```sql\nDELETE FROM users;\n```"},
		{name: "insert", raw: "INSERT INTO users (name) VALUES ('x')"},
		{name: "update", raw: "UPDATE users SET name = 'x'"},
		{name: "drop", raw: "DROP TABLE users"},
		{name: "pragma", raw: "PRAGMA table_info(users)"},
		{name: "commentary", raw: "Sure! Here is the query you asked for."},
		{name: "empty", raw: ""},
		{name: "only fences", raw: "```sql\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sanitize(tt.raw)
			require.Error(t, err)
			assert.True(t, errs.IsInvalidQuery(err))
			assert.Empty(t, got)
		})
	}
}
