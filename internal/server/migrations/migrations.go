// Package migrations embeds the goose migrations of the draft service's
// PostgreSQL schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
