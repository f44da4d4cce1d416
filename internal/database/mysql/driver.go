// Package mysql provides a MySQL implementation of database.DB backed by
// database/sql, for questions asked against a server-hosted database.
package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/intellisql/intellisql/internal/database"
	"github.com/intellisql/intellisql/internal/errs"
	"github.com/intellisql/intellisql/internal/schema"

	_ "github.com/go-sql-driver/mysql" // register "mysql" driver
)

// Driver is a MySQL implementation of database.DB.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	db *sql.DB
}

// New opens a MySQL connection pool using the provided Config and returns a
// Driver. It calls Ping to validate the connection before returning.
func New(ctx context.Context, cfg *database.Config) (*Driver, error) {
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "invalid DSN", err)
	}

	db.SetMaxOpenConns(int(cfg.MaxConns))
	db.SetMaxIdleConns(int(cfg.MinConns))
	db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)

	d := &Driver{db: db}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := d.Ping(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return d, nil
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
	return &mysqlRows{rows: rows}, nil
}

func (d *Driver) QueryRow(ctx context.Context, query string, args ...any) (database.Row, error) {
	return d.db.QueryRowContext(ctx, query, args...), nil
}

func (d *Driver) ListTables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_type   = 'BASE TABLE'
		ORDER BY table_name`

	rows, err := d.db.QueryContext(ctx, q)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindSchemaAccess, "failed to list tables", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errs.Wrap(errs.ErrKindSchemaAccess, "failed to scan table name", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrKindSchemaAccess, "error iterating tables", err)
	}
	return tables, nil
}

func (d *Driver) TableExists(ctx context.Context, table string) (bool, error) {
	const q = `
		SELECT 1
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_type   = 'BASE TABLE'
		  AND table_name   = ?`

	var exists int
	err := d.db.QueryRowContext(ctx, q, table).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, errs.Wrap(errs.ErrKindSchemaAccess, "failed to check table existence", err)
	}
	return true, nil
}

// InspectSchema introspects the connected database and returns a snapshot.
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

func (d *Driver) fetchColumns(ctx context.Context, table string) ([]schema.Column, error) {
	const q = `
		SELECT column_name,
		       data_type,
		       is_nullable = 'YES',
		       column_default,
		       column_key
		FROM information_schema.columns
		WHERE table_schema = DATABASE()
		  AND table_name   = ?
		ORDER BY ordinal_position`

	rows, err := d.db.QueryContext(ctx, q, table)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindSchemaAccess, "failed to fetch columns", err)
	}
	defer rows.Close()

	var cols []schema.Column
	for rows.Next() {
		var (
			c         schema.Column
			columnKey string
		)
		if err := rows.Scan(&c.Name, &c.DeclaredType, &c.Nullable, &c.DefaultValue, &columnKey); err != nil {
			return nil, errs.Wrap(errs.ErrKindSchemaAccess, "failed to scan column info", err)
		}
		if c.DeclaredType == "" {
			c.DeclaredType = "TEXT"
		}
		c.IsPrimaryKey = columnKey == "PRI"
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func (d *Driver) fetchForeignKeys(ctx context.Context, table string) ([]schema.ForeignKey, error) {
	const q = `
		SELECT column_name,
		       referenced_table_name,
		       referenced_column_name
		FROM information_schema.key_column_usage
		WHERE table_schema            = DATABASE()
		  AND table_name              = ?
		  AND referenced_table_name  IS NOT NULL`

	rows, err := d.db.QueryContext(ctx, q, table)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindSchemaAccess, "failed to fetch foreign keys", err)
	}
	defer rows.Close()

	fks := make([]schema.ForeignKey, 0)
	for rows.Next() {
		var fk schema.ForeignKey
		if err := rows.Scan(&fk.FromColumn, &fk.ToTable, &fk.ToColumn); err != nil {
			return nil, errs.Wrap(errs.ErrKindSchemaAccess, "failed to scan foreign key", err)
		}
		fks = append(fks, fk)
	}
	return fks, rows.Err()
}

// --- sql.DB type wrappers ---

type mysqlRows struct {
	rows *sql.Rows
}

func (r *mysqlRows) Next() bool                 { return r.rows.Next() }
func (r *mysqlRows) Scan(dest ...any) error     { return r.rows.Scan(dest...) }
func (r *mysqlRows) Columns() ([]string, error) { return r.rows.Columns() }
func (r *mysqlRows) Close()                     { _ = r.rows.Close() }
func (r *mysqlRows) Err() error                 { return r.rows.Err() }
