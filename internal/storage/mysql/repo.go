// Package mysql registers the "mysql" storage kind using
// github.com/go-sql-driver/mysql.
package mysql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"fakerfilter/internal/schema"
	"fakerfilter/internal/storage"
	"fakerfilter/internal/storage/sqldb"
)

// Dialect renders MySQL SQL.
var Dialect = sqldb.Dialect{
	Name:        "mysql",
	Quote:       quoteIdent,
	Placeholder: sqldb.QuestionMark,
	MaxParams:   65535,
	Types: map[schema.Type]string{
		schema.Boolean:   "BOOLEAN",
		schema.Long:      "BIGINT",
		schema.Double:    "DOUBLE",
		schema.String:    "TEXT",
		schema.Timestamp: "DATETIME(6)",
		schema.JSON:      "JSON",
	},
	Value: func(v any) any {
		if j, ok := v.(json.RawMessage); ok {
			return string(j)
		}
		return v
	},
}

func quoteIdent(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }

// normalizeDSN makes the driver scan DATETIME into time.Time and keeps
// timestamps in UTC.
func normalizeDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	if _, ok := cfg.Params["time_zone"]; !ok {
		cfg.Params["time_zone"] = "'+00:00'"
	}
	return cfg.FormatDSN(), nil
}

// openRepository is a test hook.
var openRepository = func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	dsn, err := normalizeDSN(cfg.DSN)
	if err != nil {
		return nil, err
	}
	return sqldb.Open(ctx, "mysql", dsn, Dialect, cfg.Table, cfg.Log)
}

func init() {
	storage.Register("mysql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return openRepository(ctx, cfg)
	})
	storage.RegisterDDL("mysql", sqldb.Bootstrapper(Dialect))
}
