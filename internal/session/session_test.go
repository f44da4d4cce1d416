package session

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellisql/intellisql/internal/database"
	"github.com/intellisql/intellisql/internal/errs"
)

// stubProvider returns a canned completion.
type stubProvider struct {
	reply string
	err   error
	// asked records the question handed to Complete.
	asked string
}

func (p *stubProvider) Complete(ctx context.Context, system, question string) (string, error) {
	p.asked = question
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

func (p *stubProvider) Name() string { return "stub" }

func createDB(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE students (
			id    INTEGER PRIMARY KEY,
			name  TEXT NOT NULL,
			grade INTEGER
		);
		INSERT INTO students (name, grade) VALUES ('Alice', 91), ('Bob', 78);
	`)
	require.NoError(t, err)
	return path
}

func attach(t *testing.T, m *Manager, path string) *Session {
	t.Helper()

	sess, err := m.Attach(context.Background(), database.DefaultConfig(database.DriverSQLite, path))
	require.NoError(t, err)
	t.Cleanup(m.Detach)
	return sess
}

func TestManager_Attach(t *testing.T) {
	m := NewManager(nil, 0)
	path := createDB(t)

	sess := attach(t, m, path)

	assert.Equal(t, path, sess.Source())
	assert.Equal(t, database.DriverSQLite, sess.Driver())
	assert.Equal(t, []string{"students"}, sess.Snapshot().TableNames())
	assert.Contains(t, sess.Prompt(), "Table: students")

	current, err := m.Current()
	require.NoError(t, err)
	assert.Same(t, sess, current)
}

func TestManager_AttachFailureKeepsCurrent(t *testing.T) {
	m := NewManager(nil, 0)
	sess := attach(t, m, createDB(t))

	// A corrupt file must not disturb the attached session.
	garbage := filepath.Join(t.TempDir(), "garbage.db")
	require.NoError(t, os.WriteFile(garbage, []byte("not a database"), 0o644))

	_, err := m.Attach(context.Background(), database.DefaultConfig(database.DriverSQLite, garbage))
	require.Error(t, err)
	assert.True(t, errs.IsSchemaAccess(err))

	current, err := m.Current()
	require.NoError(t, err)
	assert.Same(t, sess, current)

	// The surviving session still works.
	res, err := m.Run(context.Background(), "SELECT COUNT(*) FROM students")
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalRows)
}

func TestManager_Detach(t *testing.T) {
	m := NewManager(nil, 0)
	attach(t, m, createDB(t))

	m.Detach()

	_, err := m.Current()
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))

	// Detaching twice is harmless.
	m.Detach()
}

func TestManager_CurrentWithoutAttach(t *testing.T) {
	m := NewManager(nil, 0)

	_, err := m.Current()
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestManager_Ask(t *testing.T) {
	provider := &stubProvider{reply: "```sql\nSELECT name FROM students ORDER BY grade DESC;\n```"}
	m := NewManager(provider, 0)
	attach(t, m, createDB(t))

	res, err := m.Ask(context.Background(), "Who has the best grade?")
	require.NoError(t, err)

	assert.Equal(t, "Who has the best grade?", provider.asked)
	assert.Equal(t, "SELECT name FROM students ORDER BY grade DESC;", res.SQL)
	require.Len(t, res.Result.Rows, 2)
	assert.Equal(t, "Alice", res.Result.Rows[0][0])
}

func TestManager_AskRejectsWrites(t *testing.T) {
	provider := &stubProvider{reply: "DELETE FROM students;"}
	m := NewManager(provider, 0)
	attach(t, m, createDB(t))

	_, err := m.Ask(context.Background(), "Remove everyone")
	require.Error(t, err)
	assert.True(t, errs.IsInvalidQuery(err))

	// The generated statement never reached the engine.
	res, err := m.Run(context.Background(), "SELECT COUNT(*) FROM students")
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Rows[0][0])
}

func TestManager_AskWithoutProvider(t *testing.T) {
	m := NewManager(nil, 0)
	attach(t, m, createDB(t))

	_, err := m.Ask(context.Background(), "anything")
	require.Error(t, err)
	assert.True(t, errs.IsCompletion(err))
}

func TestManager_AskProviderError(t *testing.T) {
	provider := &stubProvider{err: errs.New(errs.ErrKindCompletion, "api unreachable")}
	m := NewManager(provider, 0)
	attach(t, m, createDB(t))

	_, err := m.Ask(context.Background(), "anything")
	require.Error(t, err)
	assert.True(t, errs.IsCompletion(err))
}

func TestManager_RunAppliesRowCap(t *testing.T) {
	m := NewManager(nil, 1)
	attach(t, m, createDB(t))

	res, err := m.Run(context.Background(), "SELECT name FROM students")
	require.NoError(t, err)

	assert.Len(t, res.Rows, 1)
	assert.Equal(t, 2, res.TotalRows)
	assert.True(t, res.Truncated())
}

func TestManager_RunValidates(t *testing.T) {
	m := NewManager(nil, 0)
	attach(t, m, createDB(t))

	_, err := m.Run(context.Background(), "DROP TABLE students")
	require.Error(t, err)
	assert.True(t, errs.IsInvalidQuery(err))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &database.Config{Driver: "oracle", DSN: "x"})
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
}
