// Package migrations embeds the goose SQL migrations for every SQL backend.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

const (
	DirPostgres = "postgres"
	DirSQLite   = "sqlite"
)
