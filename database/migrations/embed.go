// Package migrations holds the schema as goose SQL files. The SQL sticks to the
// subset PostgreSQL and SQLite share so tests can run against an in-process database.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
