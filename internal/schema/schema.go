// Package schema defines the fixed, ordered column model shared by every
// stage of a run. A Schema is built once (typically from the parser's column
// declarations) and never mutated afterwards; the filter stage hands the
// exact same value downstream as its output schema.
package schema

import (
	"fmt"
	"strings"
)

// Type enumerates the closed set of column types carried by a page.
type Type uint8

const (
	Boolean Type = iota + 1
	Long
	Double
	String
	Timestamp
	JSON
)

var typeNames = map[Type]string{
	Boolean:   "boolean",
	Long:      "long",
	Double:    "double",
	String:    "string",
	Timestamp: "timestamp",
	JSON:      "json",
}

// String returns the canonical lowercase name of t.
func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// ParseType resolves a configured type name. A few common aliases used by
// other pipeline configs are accepted ("int", "bool", "text", ...).
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "boolean", "bool":
		return Boolean, nil
	case "long", "int", "integer", "bigint":
		return Long, nil
	case "double", "float", "real":
		return Double, nil
	case "string", "text", "varchar":
		return String, nil
	case "timestamp", "datetime", "date":
		return Timestamp, nil
	case "json", "jsonb":
		return JSON, nil
	}
	return 0, fmt.Errorf("unknown column type %q", s)
}

// Column is one positional column of a Schema.
type Column struct {
	Name  string
	Index int
	Type  Type
	// Format is an optional timestamp layout used by parsers and sinks.
	Format string
}

func (c Column) String() string {
	return fmt.Sprintf("%s:%s", c.Name, c.Type)
}

// Def is a column declaration before indices are assigned.
type Def struct {
	Name   string
	Type   Type
	Format string
}

// Schema is an immutable, ordered set of columns.
type Schema struct {
	cols   []Column
	byName map[string]int
}

// New builds a Schema from ordered declarations. Names must be non-empty and
// unique.
func New(defs ...Def) (*Schema, error) {
	s := &Schema{
		cols:   make([]Column, 0, len(defs)),
		byName: make(map[string]int, len(defs)),
	}
	for i, d := range defs {
		if strings.TrimSpace(d.Name) == "" {
			return nil, fmt.Errorf("schema: column %d has an empty name", i)
		}
		if _, dup := s.byName[d.Name]; dup {
			return nil, fmt.Errorf("schema: duplicate column %q", d.Name)
		}
		if _, ok := typeNames[d.Type]; !ok {
			return nil, fmt.Errorf("schema: column %q has invalid type %v", d.Name, d.Type)
		}
		s.byName[d.Name] = i
		s.cols = append(s.cols, Column{Name: d.Name, Index: i, Type: d.Type, Format: d.Format})
	}
	return s, nil
}

// MustNew is New for statically known schemas; it panics on error.
func MustNew(defs ...Def) *Schema {
	s, err := New(defs...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of columns.
func (s *Schema) Len() int { return len(s.cols) }

// Column returns the column at position i.
func (s *Schema) Column(i int) Column { return s.cols[i] }

// Columns returns a copy of the ordered columns.
func (s *Schema) Columns() []Column {
	out := make([]Column, len(s.cols))
	copy(out, s.cols)
	return out
}

// Names returns the column names in schema order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.cols))
	for i, c := range s.cols {
		out[i] = c.Name
	}
	return out
}

// Lookup resolves a column by name. It fails with *ColumnNotFoundError when
// the name is absent.
func (s *Schema) Lookup(name string) (Column, error) {
	i, ok := s.byName[name]
	if !ok {
		return Column{}, &ColumnNotFoundError{Name: name}
	}
	return s.cols[i], nil
}

// Equal reports whether two schemas have the same columns in the same order.
func (s *Schema) Equal(o *Schema) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil || len(s.cols) != len(o.cols) {
		return false
	}
	for i := range s.cols {
		if s.cols[i] != o.cols[i] {
			return false
		}
	}
	return true
}

func (s *Schema) String() string {
	parts := make([]string, len(s.cols))
	for i, c := range s.cols {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ColumnNotFoundError is returned by Lookup.
type ColumnNotFoundError struct {
	Name string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found in schema", e.Name)
}
