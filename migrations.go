package advoffer

import "embed"

// MigrationsFS holds the SQL migrations for the post archive.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
