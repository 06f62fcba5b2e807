// Package migrations embeds the catalog schema so the binary is self-contained.
package migrations

import "embed"

// FS contains all *.sql migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
