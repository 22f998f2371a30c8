// Package migrations embeds the snapshot schema migrations into the binary.
//
// The generator can then create and upgrade its SQLite snapshot store
// without the SQL files being present on the filesystem.
package migrations

import "embed"

// FS holds every *.sql file of this directory at its root.
//
//go:embed *.sql
var FS embed.FS
