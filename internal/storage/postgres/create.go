package postgres

import (
	"context"
	"fmt"
	"strings"

	"fakerfilter/internal/schema"
	"fakerfilter/internal/storage"
)

var pgTypes = map[schema.Type]string{
	schema.Boolean:   "boolean",
	schema.Long:      "bigint",
	schema.Double:    "double precision",
	schema.String:    "text",
	schema.Timestamp: "timestamptz",
	schema.JSON:      "jsonb",
}

// BuildCreateTableSQL renders CREATE TABLE IF NOT EXISTS for records of s.
// Identifiers are double-quoted; all columns are nullable.
func BuildCreateTableSQL(table string, s *schema.Schema) (string, error) {
	fqn := strings.TrimSpace(table)
	if fqn == "" {
		return "", fmt.Errorf("postgres ddl: table must not be empty")
	}
	if s.Len() == 0 {
		return "", fmt.Errorf("postgres ddl: at least one column is required")
	}
	cols := make([]string, 0, s.Len())
	for _, c := range s.Columns() {
		typ, ok := pgTypes[c.Type]
		if !ok {
			return "", fmt.Errorf("postgres ddl: column %s: no mapping for type %s", c.Name, c.Type)
		}
		cols = append(cols, quoteIdent(c.Name)+" "+typ)
	}
	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		quoteFQN(fqn),
		strings.Join(cols, ",\n  "),
	), nil
}

func bootstrap(ctx context.Context, repo storage.Repository, table string, s *schema.Schema) error {
	stmt, err := BuildCreateTableSQL(table, s)
	if err != nil {
		return err
	}
	return repo.Exec(ctx, stmt)
}

func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

func quoteFQN(f string) string {
	parts := strings.Split(f, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, quoteIdent(p))
	}
	return strings.Join(out, ".")
}
