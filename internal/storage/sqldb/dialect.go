// Package sqldb implements storage.Repository over database/sql for the
// backends that load with batched multi-row INSERTs (sqlite, mysql, mssql).
// Each backend supplies a Dialect.
package sqldb

import (
	"fmt"
	"strings"

	"fakerfilter/internal/schema"
)

// Dialect captures the per-database differences in SQL text and values.
type Dialect struct {
	// Name prefixes error messages.
	Name string

	// Quote quotes one identifier segment.
	Quote func(ident string) string

	// Placeholder returns the bind marker for the n-th (1-based) argument.
	Placeholder func(n int) string

	// MaxParams bounds the bind arguments of a single statement.
	MaxParams int

	// Types maps record types to column types for CREATE TABLE.
	Types map[schema.Type]string

	// CreateTable renders the statement for table and its column list.
	// Nil means "CREATE TABLE IF NOT EXISTS <table> (<cols>)".
	CreateTable func(table, cols string) string

	// Value converts a record value into a driver argument. Nil means
	// values are passed as is.
	Value func(v any) any
}

// QuoteFQN quotes each dot-separated segment of name. Empty segments are
// dropped.
func (d Dialect) QuoteFQN(name string) string {
	parts := strings.Split(name, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, d.Quote(p))
	}
	return strings.Join(out, ".")
}

// InsertSQL renders a multi-row INSERT for rows records of columns.
func (d Dialect) InsertSQL(table string, columns []string, rows int) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(d.QuoteFQN(table))
	b.WriteString(" (")
	for i, c := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(d.Quote(c))
	}
	b.WriteString(") VALUES ")
	n := 0
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for c := range columns {
			if c > 0 {
				b.WriteString(", ")
			}
			n++
			b.WriteString(d.Placeholder(n))
		}
		b.WriteByte(')')
	}
	return b.String()
}

// CreateTableSQL renders DDL for a table holding records of s. All columns
// are nullable.
func (d Dialect) CreateTableSQL(table string, s *schema.Schema) (string, error) {
	if strings.TrimSpace(table) == "" {
		return "", fmt.Errorf("%s ddl: table must not be empty", d.Name)
	}
	cols := make([]string, 0, s.Len())
	for _, c := range s.Columns() {
		typ, ok := d.Types[c.Type]
		if !ok {
			return "", fmt.Errorf("%s ddl: column %s: no mapping for type %s", d.Name, c.Name, c.Type)
		}
		cols = append(cols, d.Quote(c.Name)+" "+typ)
	}
	list := "\n  " + strings.Join(cols, ",\n  ") + "\n"
	if d.CreateTable != nil {
		return d.CreateTable(table, list), nil
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s);", d.QuoteFQN(table), list), nil
}

// QuestionMark is the "?" placeholder style.
func QuestionMark(int) string { return "?" }

// rowsPerStatement is how many records of width cols fit in one statement.
func (d Dialect) rowsPerStatement(cols int) int {
	if cols == 0 || d.MaxParams <= 0 {
		return 1
	}
	n := d.MaxParams / cols
	if n < 1 {
		n = 1
	}
	return n
}
