package dbmigrate

import (
	"fmt"

	"github.com/fdg312/nutrilog/internal/config"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

// Target is the database a migration command runs against.
type Target struct {
	Dialect string
	DSN     string // postgres URL or sqlite file path
	Source  string // env var the DSN came from
	Warning string
}

// SelectTarget resolves the migration target for the effective storage mode.
// Postgres priority: DIRECT > DATABASE_URL > POOLED (with warning); with
// requireDirect only DATABASE_URL_DIRECT is accepted.
func SelectTarget(cfg *config.Config, requireDirect bool) (Target, error) {
	switch mode := cfg.EffectiveStorageMode(); mode {
	case config.StorageModeSQLite:
		if cfg.SQLitePath == "" {
			return Target{}, fmt.Errorf("SQLITE_PATH is empty")
		}
		return Target{Dialect: DialectSQLite, DSN: cfg.SQLitePath, Source: "SQLITE_PATH"}, nil
	case config.StorageModePostgres:
		return selectPostgres(cfg, requireDirect)
	default:
		return Target{}, fmt.Errorf("STORAGE_MODE=%s has no schema to migrate", mode)
	}
}

func selectPostgres(cfg *config.Config, requireDirect bool) (Target, error) {
	if requireDirect {
		if cfg.DatabaseURLDirect == "" {
			return Target{}, fmt.Errorf("DATABASE_URL_DIRECT is required for DDL/migrations")
		}
		return Target{Dialect: DialectPostgres, DSN: cfg.DatabaseURLDirect, Source: "DATABASE_URL_DIRECT"}, nil
	}

	switch {
	case cfg.DatabaseURLDirect != "":
		return Target{Dialect: DialectPostgres, DSN: cfg.DatabaseURLDirect, Source: "DATABASE_URL_DIRECT"}, nil
	case cfg.DatabaseURLRaw != "":
		return Target{Dialect: DialectPostgres, DSN: cfg.DatabaseURLRaw, Source: "DATABASE_URL"}, nil
	case cfg.DatabaseURLPooled != "":
		return Target{
			Dialect: DialectPostgres,
			DSN:     cfg.DatabaseURLPooled,
			Source:  "DATABASE_URL_POOLED",
			Warning: "using pooled connection for DDL is not recommended; set DATABASE_URL_DIRECT",
		}, nil
	}

	return Target{}, fmt.Errorf("no database URL configured (set DATABASE_URL_DIRECT or DATABASE_URL)")
}
