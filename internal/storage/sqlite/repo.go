// Package sqlite registers the "sqlite" storage kind, backed by the pure-Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"fakerfilter/internal/schema"
	"fakerfilter/internal/storage"
	"fakerfilter/internal/storage/sqldb"
)

// Dialect renders SQLite SQL. Timestamps are stored as RFC 3339 text so
// they sort and compare as strings; JSON is stored as text.
var Dialect = sqldb.Dialect{
	Name:        "sqlite",
	Quote:       quoteIdent,
	Placeholder: sqldb.QuestionMark,
	MaxParams:   999,
	Types: map[schema.Type]string{
		schema.Boolean:   "INTEGER",
		schema.Long:      "INTEGER",
		schema.Double:    "REAL",
		schema.String:    "TEXT",
		schema.Timestamp: "TEXT",
		schema.JSON:      "TEXT",
	},
	Value: value,
}

func quoteIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

func value(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case json.RawMessage:
		return string(t)
	default:
		return v
	}
}

// openRepository is a test hook.
var openRepository = func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	r, err := sqldb.Open(ctx, "sqlite", cfg.DSN, Dialect, cfg.Table, cfg.Log)
	if err != nil {
		return nil, err
	}
	// Ignore the error for builds without foreign key support.
	_, _ = r.DB().ExecContext(ctx, "PRAGMA foreign_keys = ON;")
	return r, nil
}

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return openRepository(ctx, cfg)
	})
	storage.RegisterDDL("sqlite", sqldb.Bootstrapper(Dialect))
}
