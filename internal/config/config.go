// Package config defines the canonical configuration model for a fakerfilter
// run. A pipeline file (JSON or YAML) names where records come from, the
// schema they conform to, which string columns the faker filter rewrites and
// where the rewritten records go.
//
// Example (YAML, trimmed):
//
//	job: customers_anonymize
//	source: { kind: file, paths: [in/customers.csv] }
//	parser:
//	  kind: csv
//	  columns:
//	    - { name: id, type: long }
//	    - { name: email, type: string }
//	filter:
//	  type: faker
//	  columns:
//	    - { name: email, faker_expression: "#{Internet.emailAddress}", locale: en-US }
//	storage: { kind: csv, path: "out/customers_{partition}.csv" }
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Pipeline is the top-level object decoded from a pipeline file.
type Pipeline struct {
	// Job labels metrics and log lines for the run.
	Job string `json:"job" yaml:"job"`

	Source  Source        `json:"source" yaml:"source"`
	Parser  Parser        `json:"parser" yaml:"parser"`
	Filter  Filter        `json:"filter" yaml:"filter"`
	Storage Storage       `json:"storage" yaml:"storage"`
	Runtime RuntimeConfig `json:"runtime" yaml:"runtime"`
}

// Source identifies the input partitions. Every path is processed by its own
// filter stage instance.
type Source struct {
	// Kind selects the source implementation. Current value: "file".
	Kind  string   `json:"kind" yaml:"kind"`
	Paths []string `json:"paths" yaml:"paths"`
}

// Parser declares how raw bytes become typed records.
type Parser struct {
	// Kind selects the parser implementation. Current value: "csv".
	Kind string `json:"kind" yaml:"kind"`

	// Columns is the record schema, in file order.
	Columns []ColumnDef `json:"columns" yaml:"columns"`

	// Options is interpreted by the parser implementation. For CSV:
	//   delimiter (string), has_header (bool), null_string (string),
	//   trim_space (bool)
	Options Options `json:"options" yaml:"options"`
}

// ColumnDef declares one schema column.
type ColumnDef struct {
	Name string `json:"name" yaml:"name"`
	// Type is one of boolean, long, double, string, timestamp, json.
	Type string `json:"type" yaml:"type"`
	// Format is a Go time layout for timestamp columns (default RFC 3339).
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// Filter configures the faker filter.
type Filter struct {
	// Type must be "faker".
	Type string `json:"type" yaml:"type"`

	// Columns lists the string columns to rewrite.
	Columns []ColumnRule `json:"columns" yaml:"columns"`

	// Seed, when non-zero, makes generated values reproducible per locale.
	Seed uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// ColumnRule rewrites one string column.
type ColumnRule struct {
	Name            string `json:"name" yaml:"name"`
	FakerExpression string `json:"faker_expression" yaml:"faker_expression"`
	Locale          string `json:"locale" yaml:"locale"`
}

// Storage selects the sink for rewritten records.
type Storage struct {
	// Kind selects the sink: "csv", "postgres", "sqlite", "mysql", "mssql" or
	// "null" (discard).
	Kind string `json:"kind" yaml:"kind"`

	// Path is the output file for the csv sink. "{partition}" is replaced
	// by the partition's input file base name.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	DB DBConfig `json:"db" yaml:"db"`
}

// DBConfig configures SQL sinks.
type DBConfig struct {
	// DSN is the driver connection string.
	DSN string `json:"dsn" yaml:"dsn"`

	// Table is the destination table (e.g. "public.customers").
	Table string `json:"table" yaml:"table"`

	// AutoCreateTable creates the table from the record schema if missing.
	AutoCreateTable bool `json:"auto_create_table" yaml:"auto_create_table"`
}

// RuntimeConfig controls partition parallelism and page sizing.
type RuntimeConfig struct {
	// Workers bounds how many partitions run concurrently (default 1).
	Workers int `json:"workers" yaml:"workers"`
	// PageSize is the number of records per page (default 1024).
	PageSize int `json:"page_size" yaml:"page_size"`
}

// Options is a small helper to fetch typed values from a free-form map.
// It performs minimal type coercion and returns the provided default when a
// key is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// UnmarshalJSON decodes a missing or null "options" object into a non-nil,
// empty Options map.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}

// Load reads a pipeline file. Files ending in .yml/.yaml are decoded as
// YAML, everything else as JSON. Environment overrides are applied after
// decoding.
func Load(path string) (Pipeline, error) {
	var p Pipeline
	b, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(b, &p); err != nil {
			return p, fmt.Errorf("decode yaml config %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &p); err != nil {
			return p, fmt.Errorf("decode json config %s: %w", path, err)
		}
	}
	if p.Parser.Options == nil {
		p.Parser.Options = Options{}
	}
	if err := ApplyEnv(&p); err != nil {
		return p, err
	}
	return p, nil
}

// LoadDotEnv loads KEY=VALUE files into the process environment. Missing
// files are ignored; existing variables are not overwritten.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// Environment variables that override file values (12-factor style).
const (
	EnvStorageDSN = "FAKER_STORAGE_DSN"
	EnvPageSize   = "FAKER_PAGE_SIZE"
	EnvWorkers    = "FAKER_WORKERS"
	EnvSeed       = "FAKER_SEED"
)

// ApplyEnv overrides selected fields from the environment.
func ApplyEnv(p *Pipeline) error {
	if v := os.Getenv(EnvStorageDSN); v != "" {
		p.Storage.DB.DSN = v
	}
	if err := envInt(EnvPageSize, &p.Runtime.PageSize); err != nil {
		return err
	}
	if err := envInt(EnvWorkers, &p.Runtime.Workers); err != nil {
		return err
	}
	if v := os.Getenv(EnvSeed); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		p.Filter.Seed = n
	}
	return nil
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}
