// Package migrations bundles the schema migration files into the binary so
// server bootstrap and the test harness apply them through the goose
// programmatic API, with no migration directory needed at runtime.
package migrations

import "embed"

// FS contains every *.sql migration, embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
