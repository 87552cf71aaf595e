// Package migrations embeds the SQL migration files so they can be used
// by the goose programmatic API in tests, the migrate command and server bootstrap.
// Postgres and SQLite keep separate directories because their DDL differs.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

// FS holds all *.sql migration files embedded at compile time.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

// ForDialect returns the migration directory for dialect as its own FS root,
// ready to pass to goose.NewProvider.
func ForDialect(dialect goose.Dialect) (fs.FS, error) {
	var dir string
	switch dialect {
	case goose.DialectPostgres:
		dir = "postgres"
	case goose.DialectSQLite3:
		dir = "sqlite"
	default:
		return nil, fmt.Errorf("migrations: unsupported dialect %q", dialect)
	}
	return fs.Sub(FS, dir)
}
