package session

import (
	"context"

	"github.com/intellisql/intellisql/internal/database"
	"github.com/intellisql/intellisql/internal/database/mysql"
	"github.com/intellisql/intellisql/internal/database/postgres"
	"github.com/intellisql/intellisql/internal/database/sqlite"
	"github.com/intellisql/intellisql/internal/errs"
)

// Open constructs the driver named by cfg.Driver. This is the only place the
// concrete driver packages are imported above the database layer.
func Open(ctx context.Context, cfg *database.Config) (database.DB, error) {
	switch cfg.Driver {
	case database.DriverSQLite, "":
		return sqlite.New(ctx, cfg)
	case database.DriverPostgres:
		return postgres.New(ctx, cfg)
	case database.DriverMySQL:
		return mysql.New(ctx, cfg)
	default:
		return nil, errs.New(errs.ErrKindInvalidInput, "unknown database driver "+string(cfg.Driver))
	}
}
