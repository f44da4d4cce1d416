// Package postgres provides a PostgreSQL implementation of database.DB
// backed by pgxpool, for questions asked against a server-hosted database
// instead of an attached file.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/intellisql/intellisql/internal/database"
	"github.com/intellisql/intellisql/internal/errs"
	"github.com/intellisql/intellisql/internal/schema"
)

// Driver is a PostgreSQL implementation of database.DB.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL using the provided Config and returns a Driver.
// It calls Ping to validate the connection before returning.
func New(ctx context.Context, cfg *database.Config) (*Driver, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "invalid DSN", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to create connection pool", err)
	}

	d := &Driver{pool: pool}

	if err := d.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return d, nil
}

// --- database.DB implementation ---

func (d *Driver) Ping(ctx context.Context) error {
	if err := d.pool.Ping(ctx); err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

func (d *Driver) Close() {
	d.pool.Close()
}

func (d *Driver) Query(ctx context.Context, sql string, args ...any) (database.Rows, error) {
	rows, err := d.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "query failed")
	}
	return &pgxRows{rows: rows}, nil
}

func (d *Driver) QueryRow(ctx context.Context, sql string, args ...any) (database.Row, error) {
	return d.pool.QueryRow(ctx, sql, args...), nil
}

// ListTables returns all user-defined table names in the public schema.
func (d *Driver) ListTables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public'
		  AND table_type   = 'BASE TABLE'
		ORDER BY table_name`

	rows, err := d.pool.Query(ctx, q)
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
		WHERE table_schema = 'public'
		  AND table_type   = 'BASE TABLE'
		  AND table_name   = $1`

	var exists int
	err := d.pool.QueryRow(ctx, q, table).Scan(&exists)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, errs.Wrap(errs.ErrKindSchemaAccess, "failed to check table existence", err)
	}
	return true, nil
}

// InspectSchema introspects the full public schema and returns a snapshot.
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
		pks, err := d.fetchPrimaryKeys(ctx, name)
		if err != nil {
			return nil, err
		}
		fks, err := d.fetchForeignKeys(ctx, name)
		if err != nil {
			return nil, err
		}

		pkSet := make(map[string]bool, len(pks))
		for _, pk := range pks {
			pkSet[pk] = true
		}
		for i := range columns {
			columns[i].IsPrimaryKey = pkSet[columns[i].Name]
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
		       column_default
		FROM information_schema.columns
		WHERE table_schema = 'public'
		  AND table_name   = $1
		ORDER BY ordinal_position`

	rows, err := d.pool.Query(ctx, q, table)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindSchemaAccess, "failed to fetch columns", err)
	}
	defer rows.Close()

	var cols []schema.Column
	for rows.Next() {
		var c schema.Column
		if err := rows.Scan(&c.Name, &c.DeclaredType, &c.Nullable, &c.DefaultValue); err != nil {
			return nil, errs.Wrap(errs.ErrKindSchemaAccess, "failed to scan column info", err)
		}
		if c.DeclaredType == "" {
			c.DeclaredType = "TEXT"
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func (d *Driver) fetchPrimaryKeys(ctx context.Context, table string) ([]string, error) {
	const q = `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON tc.constraint_name = kcu.constraint_name
		 AND tc.table_schema    = kcu.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY'
		  AND tc.table_schema    = 'public'
		  AND tc.table_name      = $1
		ORDER BY kcu.ordinal_position`

	rows, err := d.pool.Query(ctx, q, table)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindSchemaAccess, "failed to fetch primary keys", err)
	}
	defer rows.Close()

	var pks []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, errs.Wrap(errs.ErrKindSchemaAccess, "failed to scan primary key", err)
		}
		pks = append(pks, s)
	}
	return pks, rows.Err()
}

func (d *Driver) fetchForeignKeys(ctx context.Context, table string) ([]schema.ForeignKey, error) {
	const q = `
		SELECT kcu.column_name,
		       ccu.table_name  AS ref_table,
		       ccu.column_name AS ref_column
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON tc.constraint_name = kcu.constraint_name
		 AND tc.table_schema    = kcu.table_schema
		JOIN information_schema.constraint_column_usage ccu
		  ON tc.constraint_name = ccu.constraint_name
		WHERE tc.constraint_type = 'FOREIGN KEY'
		  AND tc.table_schema    = 'public'
		  AND tc.table_name      = $1`

	rows, err := d.pool.Query(ctx, q, table)
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

// --- pgx type wrappers ---

// pgxRows wraps pgx.Rows to satisfy database.Rows.
type pgxRows struct {
	rows pgx.Rows
}

func (r *pgxRows) Next() bool             { return r.rows.Next() }
func (r *pgxRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *pgxRows) Close()                 { r.rows.Close() }
func (r *pgxRows) Err() error             { return r.rows.Err() }

func (r *pgxRows) Columns() ([]string, error) {
	descs := r.rows.FieldDescriptions()
	cols := make([]string, len(descs))
	for i, d := range descs {
		cols[i] = d.Name
	}
	return cols, nil
}
