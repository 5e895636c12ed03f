// Package migrations embeds the schema migration files so a single binary
// can bootstrap its own database.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
