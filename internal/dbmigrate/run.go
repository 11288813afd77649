package dbmigrate

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/fdg312/nutrilog/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// goose keeps dialect and base FS in package state.
var gooseMu sync.Mutex

// Run applies a goose command against a Postgres database URL.
func Run(command string, dbURL string) error {
	if dbURL == "" {
		return fmt.Errorf("database URL is empty")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	return RunDB(command, db, DialectPostgres, migrations.DirPostgres)
}

// RunSQLite applies a goose command against the SQLite file at path.
func RunSQLite(command string, path string) error {
	if path == "" {
		return fmt.Errorf("sqlite path is empty")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	return RunDB(command, db, DialectSQLite, migrations.DirSQLite)
}

// RunTarget dispatches to Run or RunSQLite.
func RunTarget(command string, t Target) error {
	switch t.Dialect {
	case DialectPostgres:
		return Run(command, t.DSN)
	case DialectSQLite:
		return RunSQLite(command, t.DSN)
	default:
		return fmt.Errorf("unsupported dialect %q", t.Dialect)
	}
}

// RunDB applies a goose command on an already open database using the
// embedded migrations in dir.
func RunDB(command string, db *sql.DB, dialect string, dir string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.Run(command, db, dir); err != nil {
		return fmt.Errorf("goose %s failed: %w", command, err)
	}

	return nil
}
