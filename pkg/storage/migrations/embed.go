// Package migrations embeds the versioned SQL schema the storage layer
// assumes. Repositories never alter the layout; they depend on these
// migrations having been applied.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
