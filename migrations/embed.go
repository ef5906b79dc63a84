package migrations

import "embed"

// FS holds the SQL migrations applied by the migration runner.
//
//go:embed *.sql
var FS embed.FS
