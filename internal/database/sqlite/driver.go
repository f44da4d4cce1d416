// Package sqlite provides a SQLite implementation of database.DB backed by
// database/sql and mattn/go-sqlite3. It is the engine used for attached
// database files.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/intellisql/intellisql/internal/database"
	"github.com/intellisql/intellisql/internal/errs"
	"github.com/intellisql/intellisql/internal/schema"

	_ "github.com/mattn/go-sqlite3" // register "sqlite3" driver
)

// internalPrefix marks SQLite's own catalog objects (sqlite_master,
// sqlite_sequence, …), which are never part of the user schema.
const internalPrefix = "sqlite_"

// Driver is a SQLite implementation of database.DB holding one database file.
type Driver struct {
	db   *sql.DB
	path string
}

// New opens the SQLite database file at cfg.DSN and returns a Driver.
// It probes the catalog before returning so that a corrupt or non-database
// file fails here, not on first use.
func New(ctx context.Context, cfg *database.Config) (*Driver, error) {
	if _, err := os.Stat(cfg.DSN); err != nil {
		return nil, errs.Wrap(errs.ErrKindSchemaAccess, fmt.Sprintf("cannot open database file %q", cfg.DSN), err)
	}

	db, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindSchemaAccess, "failed to open database file", err)
	}

	// One attached file, one session: a single connection avoids SQLite's
	// writer lock contention entirely.
	db.SetMaxOpenConns(1)

	d := &Driver{db: db, path: cfg.DSN}

	probeCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	// sql.Open is lazy; force a catalog read to validate the file header.
	var n int
	if err := db.QueryRowContext(probeCtx, `SELECT count(*) FROM sqlite_master`).Scan(&n); err != nil {
		_ = db.Close()
		return nil, errs.Wrap(errs.ErrKindSchemaAccess, fmt.Sprintf("%q is not a readable database file", cfg.DSN), err)
	}

	return d, nil
}

// Path returns the filesystem path of the attached database file.
func (d *Driver) Path() string {
	return d.path
}

// --- database.DB implementation ---

func (d *Driver) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

func (d *Driver) Close() {
	_ = d.db.Close()
}

func (d *Driver) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "query failed")
	}
	return &sqliteRows{rows: rows}, nil
}

func (d *Driver) QueryRow(ctx context.Context, query string, args ...any) (database.Row, error) {
	return d.db.QueryRowContext(ctx, query, args...), nil
}

// ListTables returns user table names in sqlite_master (catalog) order.
// That order is deliberate: it is the order the snapshot and the prompt use.
func (d *Driver) ListTables(ctx context.Context) ([]string, error) {
	const q = `SELECT name FROM sqlite_master WHERE type = 'table'`

	rows, err := d.db.QueryContext(ctx, q)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindSchemaAccess, "failed to read catalog", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errs.Wrap(errs.ErrKindSchemaAccess, "failed to scan table name", err)
		}
		if strings.HasPrefix(name, internalPrefix) {
			continue
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrKindSchemaAccess, "error iterating catalog", err)
	}
	return tables, nil
}

func (d *Driver) TableExists(ctx context.Context, table string) (bool, error) {
	if strings.HasPrefix(table, internalPrefix) {
		return false, nil
	}

	const q = `SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?`

	var exists int
	err := d.db.QueryRowContext(ctx, q, table).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, errs.Wrap(errs.ErrKindSchemaAccess, "failed to check table existence", err)
	}
	return true, nil
}

// InspectSchema walks the catalog and returns a fresh snapshot: every user
// table with its columns in declaration order and its foreign-key edges.
func (d *Driver) InspectSchema(ctx context.Context) (*schema.Snapshot, error) {
	tables, err := d.ListTables(ctx)
	if err != nil {
		return nil, err
	}

	snap := &schema.Snapshot{Tables: make([]schema.Table, 0, len(tables))}
	for _, name := range tables {
		columns, err := d.fetchColumns(ctx, name)
		if err != nil {
			return nil, err
		}
		fks, err := d.fetchForeignKeys(ctx, name)
		if err != nil {
			return nil, err
		}
		snap.Tables = append(snap.Tables, schema.Table{
			Name:        name,
			Columns:     columns,
			ForeignKeys: fks,
		})
	}
	return snap, nil
}

// fetchColumns reads PRAGMA table_info for one table.
// Row shape: cid, name, type, notnull, dflt_value, pk.
func (d *Driver) fetchColumns(ctx context.Context, table string) ([]schema.Column, error) {
	q := fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table))

	rows, err := d.db.QueryContext(ctx, q)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindSchemaAccess, fmt.Sprintf("failed to read columns of %q", table), err)
	}
	defer rows.Close()

	var cols []schema.Column
	for rows.Next() {
		var (
			cid      int
			name     string
			declType string
			notNull  int
			dflt     sql.NullString
			pk       int
		)
		if err := rows.Scan(&cid, &name, &declType, &notNull, &dflt, &pk); err != nil {
			return nil, errs.Wrap(errs.ErrKindSchemaAccess, "failed to scan column info", err)
		}

		// SQLite does not enforce static types; an undeclared type comes back
		// empty and must be normalized so type-driven example selection works.
		if declType == "" {
			declType = "TEXT"
		}

		col := schema.Column{
			Name:         name,
			DeclaredType: declType,
			Nullable:     notNull == 0,
			IsPrimaryKey: pk > 0,
		}
		if dflt.Valid {
			v := dflt.String
			col.DefaultValue = &v
		}
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

// fetchForeignKeys reads PRAGMA foreign_key_list for one table.
// Row shape: id, seq, table, from, to, on_update, on_delete, match.
func (d *Driver) fetchForeignKeys(ctx context.Context, table string) ([]schema.ForeignKey, error) {
	q := fmt.Sprintf("PRAGMA foreign_key_list(%s)", quoteIdent(table))

	rows, err := d.db.QueryContext(ctx, q)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindSchemaAccess, fmt.Sprintf("failed to read foreign keys of %q", table), err)
	}
	defer rows.Close()

	fks := make([]schema.ForeignKey, 0)
	for rows.Next() {
		var (
			id, seq            int
			refTable, from     string
			to                 sql.NullString
			onUpdate, onDelete string
			match              string
		)
		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, errs.Wrap(errs.ErrKindSchemaAccess, "failed to scan foreign key", err)
		}
		fks = append(fks, schema.ForeignKey{
			FromColumn: from,
			ToTable:    refTable,
			ToColumn:   to.String, // empty when the edge targets the primary key implicitly
		})
	}
	return fks, rows.Err()
}

// quoteIdent wraps a SQL identifier in double-quotes (ANSI standard).
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// --- database/sql type wrappers ---

type sqliteRows struct {
	rows *sql.Rows
}

func (r *sqliteRows) Next() bool                 { return r.rows.Next() }
func (r *sqliteRows) Scan(dest ...any) error     { return r.rows.Scan(dest...) }
func (r *sqliteRows) Columns() ([]string, error) { return r.rows.Columns() }
func (r *sqliteRows) Close()                     { _ = r.rows.Close() }
func (r *sqliteRows) Err() error                 { return r.rows.Err() }
