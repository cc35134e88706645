// Package migrations contains embedded SQL migrations for the SQLite store.
package migrations

import "embed"

//go:embed journals/*.sql
var JournalsFS embed.FS
