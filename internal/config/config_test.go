package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fakerfilter/internal/schema"
)

const sampleYAML = `
job: customers
source:
  kind: file
  paths: [in/a.csv, in/b.csv]
parser:
  kind: csv
  columns:
    - { name: id, type: long }
    - { name: email, type: string }
    - { name: created_at, type: timestamp, format: "2006-01-02" }
  options:
    has_header: true
    delimiter: ";"
filter:
  type: faker
  seed: 99
  columns:
    - name: email
      faker_expression: "#{Internet.emailAddress}"
      locale: en-US
storage:
  kind: csv
  path: out/{partition}.csv
runtime:
  workers: 2
  page_size: 500
`

const sampleJSON = `{
  "job": "customers",
  "source": {"kind": "file", "paths": ["in/a.csv"]},
  "parser": {"kind": "csv", "columns": [{"name": "email", "type": "string"}]},
  "filter": {"columns": [{"name": "email", "faker_expression": "#{Name.firstName}", "locale": "fr-FR"}]},
  "storage": {"kind": "postgres", "db": {"dsn": "postgres://localhost/db", "table": "public.t"}}
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// TestLoad_YAML verifies YAML decoding including nested options and rules.
func TestLoad_YAML(t *testing.T) {
	p, err := Load(writeFile(t, "p.yaml", sampleYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Job != "customers" || len(p.Source.Paths) != 2 {
		t.Fatalf("unexpected job/source: %+v", p)
	}
	if got := p.Parser.Options.Rune("delimiter", ','); got != ';' {
		t.Errorf("delimiter = %q", got)
	}
	if !p.Parser.Options.Bool("has_header", false) {
		t.Error("has_header should be true")
	}
	if len(p.Filter.Columns) != 1 || p.Filter.Columns[0].FakerExpression != "#{Internet.emailAddress}" {
		t.Errorf("filter columns = %+v", p.Filter.Columns)
	}
	if p.Filter.Seed != 99 || p.Runtime.Workers != 2 || p.Runtime.PageSize != 500 {
		t.Errorf("seed/runtime = %d %+v", p.Filter.Seed, p.Runtime)
	}
	if issues := ValidatePipeline(p); HasErrors(issues) {
		t.Fatalf("unexpected errors: %+v", issues)
	}
}

// TestLoad_JSONWithEnvOverride verifies JSON decoding and that environment
// variables override file values.
func TestLoad_JSONWithEnvOverride(t *testing.T) {
	t.Setenv(EnvStorageDSN, "postgres://override/db")
	t.Setenv(EnvPageSize, "64")

	p, err := Load(writeFile(t, "p.json", sampleJSON))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Storage.DB.DSN != "postgres://override/db" {
		t.Errorf("dsn = %q", p.Storage.DB.DSN)
	}
	if p.Runtime.PageSize != 64 {
		t.Errorf("page_size = %d", p.Runtime.PageSize)
	}
	if p.Parser.Options == nil {
		t.Error("options should default to an empty map")
	}
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv(EnvWorkers, "many")
	if _, err := Load(writeFile(t, "p.json", sampleJSON)); err == nil {
		t.Fatal("expected error for non-numeric FAKER_WORKERS")
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "FAKER_TEST_DOTENV=from-file\n")
	t.Setenv("FAKER_TEST_DOTENV", "")
	os.Unsetenv("FAKER_TEST_DOTENV")

	if err := LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv("FAKER_TEST_DOTENV"); got != "from-file" {
		t.Fatalf("FAKER_TEST_DOTENV = %q", got)
	}
}

func TestBuildSchema(t *testing.T) {
	s, err := BuildSchema([]ColumnDef{{Name: "id", Type: "int"}, {Name: "doc", Type: "json"}})
	if err != nil {
		t.Fatalf("BuildSchema: %v", err)
	}
	if s.Column(0).Type != schema.Long || s.Column(1).Type != schema.JSON {
		t.Errorf("schema = %s", s)
	}
	if _, err := BuildSchema([]ColumnDef{{Name: "x", Type: "blob"}}); err == nil || !strings.Contains(err.Error(), `"x"`) {
		t.Errorf("err = %v", err)
	}
}
