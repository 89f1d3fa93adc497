// Package migrations embeds the goose SQL migrations of both storage
// backends: the shared Postgres directory and the per-owner SQLite stores.
package migrations

import "embed"

//go:embed postgres/*.sql
var Postgres embed.FS

//go:embed ownerstore/*.sql
var OwnerStore embed.FS
