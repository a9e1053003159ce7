// Package migrations embeds the goose migration scripts for the server
// database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
