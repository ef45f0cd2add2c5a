// Package mssql registers the "mssql" storage kind using
// github.com/microsoft/go-mssqldb.
package mssql

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"fakerfilter/internal/schema"
	"fakerfilter/internal/storage"
	"fakerfilter/internal/storage/sqldb"
)

// Dialect renders T-SQL. SQL Server caps a statement at 2100 parameters.
var Dialect = sqldb.Dialect{
	Name:        "mssql",
	Quote:       quoteIdent,
	Placeholder: func(n int) string { return "@p" + strconv.Itoa(n) },
	MaxParams:   2000,
	Types: map[schema.Type]string{
		schema.Boolean:   "BIT",
		schema.Long:      "BIGINT",
		schema.Double:    "FLOAT",
		schema.String:    "NVARCHAR(MAX)",
		schema.Timestamp: "DATETIME2(7)",
		schema.JSON:      "NVARCHAR(MAX)",
	},
	CreateTable: createTable,
	Value: func(v any) any {
		if j, ok := v.(json.RawMessage); ok {
			return string(j)
		}
		return v
	},
}

// quoteIdent brackets one identifier segment, escaping ']'.
func quoteIdent(id string) string { return "[" + strings.ReplaceAll(id, "]", "]]") + "]" }

// createTable guards CREATE TABLE with OBJECT_ID since T-SQL has no
// IF NOT EXISTS for tables.
func createTable(table, cols string) string {
	parts := strings.Split(table, ".")
	quoted := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			quoted = append(quoted, quoteIdent(p))
		}
	}
	fqn := strings.Join(quoted, ".")
	lit := strings.ReplaceAll(fqn, "'", "''")
	return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL\nCREATE TABLE %s (%s);", lit, fqn, cols)
}

// openRepository is a test hook.
var openRepository = func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	if _, err := msdsn.Parse(cfg.DSN); err != nil {
		return nil, fmt.Errorf("mssql dsn: %w", err)
	}
	return sqldb.Open(ctx, "sqlserver", cfg.DSN, Dialect, cfg.Table, cfg.Log)
}

func init() {
	storage.Register("mssql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return openRepository(ctx, cfg)
	})
	storage.RegisterDDL("mssql", sqldb.Bootstrapper(Dialect))
}
