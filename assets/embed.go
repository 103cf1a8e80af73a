// Package assets embeds the SQL migrations shipped with the server.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed sql/*.sql
var sqlFS embed.FS

// Migrations returns the migration files rooted at their directory, so
// names look like "0001_init.sql".
func Migrations() fs.FS {
	sub, err := fs.Sub(sqlFS, "sql")
	if err != nil {
		panic(err) // embedded path is fixed at build time
	}
	return sub
}
