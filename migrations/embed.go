// Package migrations embeds the Postgres schema so that the binary can
// migrate without a checkout of the repository.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
