// Package migrations embeds the golang-migrate SQL files so the server, the
// migration script and the storage tests all apply the same schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
