package database

import "time"

// Driver identifies the database engine.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverMySQL    Driver = "mysql"
)

// Config holds all settings needed to open a database.
//
// For SQLite, DSN is the filesystem path of the database file. For Postgres
// and MySQL it is a full connection string.
type Config struct {
	// Driver is the database engine (e.g. DriverSQLite).
	Driver Driver

	// DSN is the file path (SQLite) or data source name (Postgres/MySQL).
	DSN string

	// Pool tuning; ignored by the SQLite driver, which holds a single file.
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration

	// Timeouts
	ConnectTimeout time.Duration // time limit for establishing a connection
	QueryTimeout   time.Duration // default per-query deadline (applied by callers)
}

// DefaultConfig returns sensible settings for attaching the given source.
// Attached files are single-user and single-session, so the pool stays small.
func DefaultConfig(driver Driver, dsn string) *Config {
	return &Config{
		Driver:          driver,
		DSN:             dsn,
		MaxConns:        4,
		MinConns:        1,
		MaxConnLifetime: 30 * time.Minute,
		MaxConnIdleTime: 5 * time.Minute,
		ConnectTimeout:  10 * time.Second,
		QueryTimeout:    30 * time.Second,
	}
}
