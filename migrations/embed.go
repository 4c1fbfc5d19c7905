// Package migrations embeds the versioned SQL schema applied by cmd/migrate.
package migrations

import "embed"

// FS holds every *.up.sql / *.down.sql pair.
//
//go:embed *.sql
var FS embed.FS
