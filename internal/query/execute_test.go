package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellisql/intellisql/internal/database"
	"github.com/intellisql/intellisql/internal/errs"
	"github.com/intellisql/intellisql/internal/schema"
)

// stubRows yields n rows with a single value column.
type stubRows struct {
	n      int
	cursor int
}

func (r *stubRows) Next() bool {
	if r.cursor >= r.n {
		return false
	}
	r.cursor++
	return true
}

func (r *stubRows) Scan(dest ...any) error {
	*(dest[0].(*any)) = int64(r.cursor)
	return nil
}

func (r *stubRows) Columns() ([]string, error) { return []string{"value"}, nil }
func (r *stubRows) Close()                     {}
func (r *stubRows) Err() error                 { return nil }

// stubDB returns a canned result set, or a canned error.
type stubDB struct {
	rows database.Rows
	err  error
	// lastSQL records what Execute handed to the engine.
	lastSQL string
}

func (d *stubDB) Ping(ctx context.Context) error { return nil }
func (d *stubDB) Close()                         {}

func (d *stubDB) Query(ctx context.Context, sql string, args ...any) (database.Rows, error) {
	d.lastSQL = sql
	if d.err != nil {
		return nil, d.err
	}
	return d.rows, nil
}

func (d *stubDB) QueryRow(ctx context.Context, sql string, args ...any) (database.Row, error) {
	return nil, nil
}

func (d *stubDB) ListTables(ctx context.Context) ([]string, error) { return nil, nil }

func (d *stubDB) TableExists(ctx context.Context, t string) (bool, error) { return false, nil }
func (d *stubDB) InspectSchema(ctx context.Context) (*schema.Snapshot, error) {
	return &schema.Snapshot{}, nil
}

func TestExecute(t *testing.T) {
	db := &stubDB{rows: &stubRows{n: 5}}

	res, err := Execute(context.Background(), db, "SELECT value FROM t", 10)
	require.NoError(t, err)

	assert.Equal(t, "SELECT value FROM t", db.lastSQL)
	assert.Equal(t, []string{"value"}, res.Columns)
	assert.Len(t, res.Rows, 5)
	assert.Equal(t, 5, res.TotalRows)
	assert.False(t, res.Truncated())
}

func TestExecute_Truncates(t *testing.T) {
	db := &stubDB{rows: &stubRows{n: 5000}}

	res, err := Execute(context.Background(), db, "SELECT value FROM t", 1000)
	require.NoError(t, err)

	assert.Len(t, res.Rows, 1000)
	assert.Equal(t, 5000, res.TotalRows)
	assert.True(t, res.Truncated())
}

func TestExecute_DefaultCap(t *testing.T) {
	db := &stubDB{rows: &stubRows{n: DefaultMaxRows + 1}}

	res, err := Execute(context.Background(), db, "SELECT value FROM t", 0)
	require.NoError(t, err)

	assert.Len(t, res.Rows, DefaultMaxRows)
	assert.Equal(t, DefaultMaxRows+1, res.TotalRows)
}

func TestExecute_EngineError(t *testing.T) {
	db := &stubDB{err: errs.New(errs.ErrKindMissingTable, "no such table: ghosts")}

	res, err := Execute(context.Background(), db, "SELECT * FROM ghosts", 10)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errs.IsMissingTable(err))
}
