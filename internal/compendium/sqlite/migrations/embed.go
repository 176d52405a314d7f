// Package migrations embeds the SQLite schema for the compendium store.
package migrations

import "embed"

// FS contains the embedded compendium migrations.
//
//go:embed *.sql
var FS embed.FS
