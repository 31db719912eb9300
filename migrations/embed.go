// Package migrations embeds the PostgreSQL schema migrations so the binaries
// can apply them without a checkout of the repository.
package migrations

import "embed"

// FS holds the *.up.sql and *.down.sql files of this directory
//
//go:embed *.sql
var FS embed.FS
