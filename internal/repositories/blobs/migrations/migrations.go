// Package migrations embeds the goose schema migrations for the SQL blob
// backends, one directory per dialect.
package migrations

import "embed"

//go:embed sqlite/*.sql
var SQLite embed.FS

//go:embed postgres/*.sql
var Postgres embed.FS
