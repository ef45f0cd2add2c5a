// Package config provides configuration models and helpers for fakerfilter
// pipelines.
//
// This file adds a lightweight linter/validator for Pipeline values. It
// performs static checks over a decoded Pipeline and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"

	"fakerfilter/internal/faker"
	"fakerfilter/internal/schema"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding that is surfaced but does not block.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "storage.kind",
// "filter.columns[1].locale"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether issues contains at least one SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// BuildSchema turns parser column declarations into a schema.Schema.
func BuildSchema(defs []ColumnDef) (*schema.Schema, error) {
	out := make([]schema.Def, 0, len(defs))
	for _, d := range defs {
		t, err := schema.ParseType(d.Type)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", d.Name, err)
		}
		out = append(out, schema.Def{Name: d.Name, Type: t, Format: d.Format})
	}
	return schema.New(out...)
}

// ValidatePipeline performs static validation of a Pipeline. It does not
// mutate the pipeline.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "job",
			Message:  "job is empty; metrics and logs will use the default job name",
		})
	}
	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateParser(p.Parser)...)
	issues = append(issues, validateFilter(p.Filter, p.Parser.Columns)...)
	issues = append(issues, validateStorage(p.Storage)...)
	issues = append(issues, validateRuntime(p.Runtime)...)

	return issues
}

func validateSource(s Source) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		return append(issues, Issue{SeverityError, "source.kind", "source.kind must not be empty"})
	}
	if s.Kind != "file" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.kind",
			Message:  fmt.Sprintf("unsupported source kind %q", s.Kind),
		})
	}
	if len(s.Paths) == 0 {
		issues = append(issues, Issue{SeverityError, "source.paths", "at least one input path is required"})
	}
	for i, path := range s.Paths {
		if strings.TrimSpace(path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("source.paths[%d]", i),
				Message:  "path must not be empty",
			})
		}
	}
	return issues
}

func validateParser(p Parser) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Kind) == "" {
		return append(issues, Issue{SeverityError, "parser.kind", "parser.kind must not be empty"})
	}
	if p.Kind != "csv" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "parser.kind",
			Message:  fmt.Sprintf("unsupported parser kind %q", p.Kind),
		})
	}
	if len(p.Columns) == 0 {
		return append(issues, Issue{SeverityError, "parser.columns", "parser.columns must declare the record schema"})
	}
	seen := make(map[string]struct{}, len(p.Columns))
	for i, c := range p.Columns {
		path := fmt.Sprintf("parser.columns[%d]", i)
		if strings.TrimSpace(c.Name) == "" {
			issues = append(issues, Issue{SeverityError, path + ".name", "column name must not be empty"})
		} else if _, dup := seen[c.Name]; dup {
			issues = append(issues, Issue{SeverityError, path + ".name", fmt.Sprintf("duplicate column %q", c.Name)})
		}
		seen[c.Name] = struct{}{}
		if _, err := schema.ParseType(c.Type); err != nil {
			issues = append(issues, Issue{SeverityError, path + ".type", err.Error()})
		}
		if c.Format != "" && !strings.EqualFold(c.Type, "timestamp") {
			issues = append(issues, Issue{SeverityWarning, path + ".format", "format is only used by timestamp columns"})
		}
	}
	if d := p.Options.String("delimiter", ","); len([]rune(d)) != 1 {
		issues = append(issues, Issue{SeverityError, "parser.options.delimiter", "delimiter must be a single character"})
	}
	return issues
}

// validateFilter checks the faker rules and that every rule targets an
// existing string column of the declared schema.
func validateFilter(f Filter, cols []ColumnDef) []Issue {
	var issues []Issue

	if f.Type != "" && f.Type != "faker" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "filter.type",
			Message:  fmt.Sprintf("unsupported filter type %q; only \"faker\" is available", f.Type),
		})
	}
	if len(f.Columns) == 0 {
		return append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "filter.columns",
			Message:  "no columns configured; records will pass through unchanged",
		})
	}

	types := make(map[string]string, len(cols))
	for _, c := range cols {
		types[c.Name] = c.Type
	}

	seen := make(map[string]struct{}, len(f.Columns))
	for i, r := range f.Columns {
		path := fmt.Sprintf("filter.columns[%d]", i)

		switch typ, ok := types[r.Name]; {
		case strings.TrimSpace(r.Name) == "":
			issues = append(issues, Issue{SeverityError, path + ".name", "name must not be empty"})
		case !ok:
			issues = append(issues, Issue{SeverityError, path + ".name", fmt.Sprintf("column %q is not declared in parser.columns", r.Name)})
		default:
			if t, err := schema.ParseType(typ); err == nil && t != schema.String {
				issues = append(issues, Issue{SeverityError, path + ".name", fmt.Sprintf("column %q has type %s; only string columns can be rewritten", r.Name, t)})
			}
		}
		if _, dup := seen[r.Name]; dup && r.Name != "" {
			issues = append(issues, Issue{SeverityError, path + ".name", fmt.Sprintf("column %q is configured more than once", r.Name)})
		}
		seen[r.Name] = struct{}{}

		if strings.TrimSpace(r.FakerExpression) == "" {
			issues = append(issues, Issue{SeverityError, path + ".faker_expression", "faker_expression must not be empty"})
		} else if err := faker.ValidateExpression(r.FakerExpression); err != nil {
			issues = append(issues, Issue{SeverityError, path + ".faker_expression", err.Error()})
		}

		if strings.TrimSpace(r.Locale) == "" {
			issues = append(issues, Issue{SeverityError, path + ".locale", "locale must not be empty"})
		} else if _, err := faker.ParseLocale(r.Locale); err != nil {
			issues = append(issues, Issue{SeverityError, path + ".locale", err.Error()})
		}
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue

	switch strings.TrimSpace(s.Kind) {
	case "":
		issues = append(issues, Issue{SeverityError, "storage.kind", "storage.kind must not be empty"})
	case "null":
	case "csv":
		if strings.TrimSpace(s.Path) == "" {
			issues = append(issues, Issue{SeverityError, "storage.path", "csv storage requires a path"})
		}
	case "postgres", "sqlite", "mysql", "mssql":
		if strings.TrimSpace(s.DB.DSN) == "" {
			issues = append(issues, Issue{SeverityError, "storage.db.dsn", "storage.db.dsn must not be empty"})
		}
		if strings.TrimSpace(s.DB.Table) == "" {
			issues = append(issues, Issue{SeverityError, "storage.db.table", "storage.db.table must not be empty"})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind),
		})
	}
	return issues
}

func validateRuntime(r RuntimeConfig) []Issue {
	var issues []Issue

	if r.Workers < 0 {
		issues = append(issues, Issue{SeverityError, "runtime.workers", "workers must not be negative"})
	}
	if r.PageSize < 0 {
		issues = append(issues, Issue{SeverityError, "runtime.page_size", "page_size must not be negative"})
	}
	return issues
}
