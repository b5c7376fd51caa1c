// Package migrations embeds the versioned schema for both storage
// drivers so the binaries never depend on the working directory.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
