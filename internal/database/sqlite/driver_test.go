package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellisql/intellisql/internal/database"
	"github.com/intellisql/intellisql/internal/errs"
)

// createDB builds a database file at a temp path and applies ddl to it.
func createDB(t *testing.T, ddl string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(ddl)
	require.NoError(t, err)
	return path
}

const sampleDDL = `
	CREATE TABLE students (
		id    INTEGER PRIMARY KEY,
		name  TEXT NOT NULL,
		class TEXT DEFAULT 'unassigned',
		grade INTEGER
	);
	CREATE TABLE enrollments (
		student_id INTEGER,
		course     TEXT,
		FOREIGN KEY (student_id) REFERENCES students(id)
	);
	INSERT INTO students (name, class, grade) VALUES
		('Alice', 'Physics', 91),
		('Bob', 'Chemistry', 78);
`

func open(t *testing.T, path string) *Driver {
	t.Helper()

	d, err := New(context.Background(), database.DefaultConfig(database.DriverSQLite, path))
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d
}

func TestNew_MissingFile(t *testing.T) {
	_, err := New(context.Background(), database.DefaultConfig(database.DriverSQLite, "/nonexistent/path.db"))
	require.Error(t, err)
	assert.True(t, errs.IsSchemaAccess(err))
}

func TestNew_NotADatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.db")
	require.NoError(t, os.WriteFile(path, []byte("this is not a database file"), 0o644))

	_, err := New(context.Background(), database.DefaultConfig(database.DriverSQLite, path))
	require.Error(t, err)
	assert.True(t, errs.IsSchemaAccess(err))
}

func TestListTables(t *testing.T) {
	d := open(t, createDB(t, sampleDDL))

	tables, err := d.ListTables(context.Background())
	require.NoError(t, err)

	// Catalog order, which here is creation order.
	assert.Equal(t, []string{"students", "enrollments"}, tables)
}

func TestListTables_ExcludesInternal(t *testing.T) {
	// AUTOINCREMENT forces SQLite to create sqlite_sequence.
	ddl := `CREATE TABLE items (id INTEGER PRIMARY KEY AUTOINCREMENT, label TEXT);
		INSERT INTO items (label) VALUES ('x');`
	d := open(t, createDB(t, ddl))

	tables, err := d.ListTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"items"}, tables)
}

func TestTableExists(t *testing.T) {
	d := open(t, createDB(t, sampleDDL))
	ctx := context.Background()

	exists, err := d.TableExists(ctx, "students")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = d.TableExists(ctx, "teachers")
	require.NoError(t, err)
	assert.False(t, exists)

	// Internal catalog objects are never reported.
	exists, err = d.TableExists(ctx, "sqlite_master")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestInspectSchema(t *testing.T) {
	d := open(t, createDB(t, sampleDDL))

	snap, err := d.InspectSchema(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Tables, 2)

	students := snap.Table("students")
	require.NotNil(t, students)
	require.Len(t, students.Columns, 4)

	id := students.Columns[0]
	assert.Equal(t, "id", id.Name)
	assert.Equal(t, "INTEGER", id.DeclaredType)
	assert.True(t, id.IsPrimaryKey)

	name := students.Columns[1]
	assert.Equal(t, "name", name.Name)
	assert.False(t, name.Nullable)
	assert.False(t, name.IsPrimaryKey)

	class := students.Columns[2]
	require.NotNil(t, class.DefaultValue)
	assert.Equal(t, "'unassigned'", *class.DefaultValue)

	enrollments := snap.Table("enrollments")
	require.NotNil(t, enrollments)
	require.Len(t, enrollments.ForeignKeys, 1)
	fk := enrollments.ForeignKeys[0]
	assert.Equal(t, "student_id", fk.FromColumn)
	assert.Equal(t, "students", fk.ToTable)
	assert.Equal(t, "id", fk.ToColumn)

	assert.Empty(t, students.ForeignKeys)
}

func TestInspectSchema_UntypedColumn(t *testing.T) {
	// A column declared without a type has an empty catalog type; it must be
	// normalized so downstream classification has something to work with.
	d := open(t, createDB(t, `CREATE TABLE notes (body);`))

	snap, err := d.InspectSchema(context.Background())
	require.NoError(t, err)

	notes := snap.Table("notes")
	require.NotNil(t, notes)
	require.Len(t, notes.Columns, 1)
	assert.Equal(t, "TEXT", notes.Columns[0].DeclaredType)
}

func TestQuery_ErrorMapping(t *testing.T) {
	d := open(t, createDB(t, sampleDDL))
	ctx := context.Background()

	_, err := d.Query(ctx, "SELECT * FROM ghosts")
	require.Error(t, err)
	assert.True(t, errs.IsMissingTable(err))

	_, err = d.Query(ctx, "SELECT haunted FROM students")
	require.Error(t, err)
	assert.True(t, errs.IsMissingColumn(err))
}

func TestQuery_Rows(t *testing.T) {
	d := open(t, createDB(t, sampleDDL))

	rows, err := d.Query(context.Background(), "SELECT name, grade FROM students ORDER BY id")
	require.NoError(t, err)

	columns, kept, total, err := database.ScanRows(rows, 10)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "grade"}, columns)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Alice", kept[0][0])
	assert.Equal(t, int64(91), kept[0][1])
}
