// Package all wires every built-in storage backend into the storage registry.
// Import it for side effects:
//
//	import _ "fakerfilter/internal/storage/all"
//
// Binaries that need a subset can import the backend packages directly.
package all

import (
	_ "fakerfilter/internal/storage/csvfile"
	_ "fakerfilter/internal/storage/discard"
	_ "fakerfilter/internal/storage/mssql"
	_ "fakerfilter/internal/storage/mysql"
	_ "fakerfilter/internal/storage/postgres"
	_ "fakerfilter/internal/storage/sqlite"
)
