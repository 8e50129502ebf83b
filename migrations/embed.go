package migrations

import "embed"

// FS holds one directory of migrations per database driver.
//
//go:embed sqlite3/*.sql postgres/*.sql
var FS embed.FS
