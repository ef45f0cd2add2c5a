// Package csv parses delimited text into typed records of a declared schema.
//
// The reader streams: memory is bounded by the page size, never by the file.
// Every failure is fatal and carries the 1-based input line.
package csv

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"fakerfilter/internal/config"
	"fakerfilter/internal/page"
	"fakerfilter/internal/parser"
	"fakerfilter/internal/schema"
)

// Options configures the CSV parser.
type Options struct {
	// Delimiter separates fields. Zero means ','.
	Delimiter rune

	// HasHeader maps header names onto schema columns. Without a header
	// columns are positional.
	HasHeader bool

	// NullString is the cell value read as null. Empty by default, so empty
	// cells are null.
	NullString string

	// TrimSpace trims leading/trailing spaces from each cell before typing.
	TrimSpace bool

	// LazyQuotes relaxes quote handling (csv.Reader.LazyQuotes).
	LazyQuotes bool
}

// OptionsFrom reads parser.options: delimiter, has_header (default true),
// null_string, trim_space, lazy_quotes.
func OptionsFrom(o config.Options) Options {
	return Options{
		Delimiter:  o.Rune("delimiter", ','),
		HasHeader:  o.Bool("has_header", true),
		NullString: o.String("null_string", ""),
		TrimSpace:  o.Bool("trim_space", false),
		LazyQuotes: o.Bool("lazy_quotes", false),
	}
}

// ParseError reports a fatal problem at an input line.
type ParseError struct {
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("csv: line %d: column %q: %v", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("csv: line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parser reads CSV into a page.Builder. It is safe to reuse across inputs but
// not concurrently.
type Parser struct {
	schema *schema.Schema
	opt    Options
	log    *zap.Logger
}

var _ parser.Parser = (*Parser)(nil)

// NewParser returns a Parser for records of s. A nil logger disables logging.
func NewParser(s *schema.Schema, opt Options, log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{schema: s, opt: opt, log: log}
}

const logEveryN = 100_000

// Parse implements parser.Parser.
func (p *Parser) Parse(ctx context.Context, r io.Reader, b *page.Builder) (int64, error) {
	cr := csv.NewReader(r)
	if p.opt.Delimiter != 0 {
		cr.Comma = p.opt.Delimiter
	}
	cr.LazyQuotes = p.opt.LazyQuotes
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	colIx, err := p.mapColumns(cr)
	if err != nil {
		return 0, err
	}

	var n int64
	for {
		select {
		case <-ctx.Done():
			return n, ctx.Err()
		default:
		}

		rec, err := cr.Read()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return n, &ParseError{Line: pe.StartLine, Err: pe.Err}
			}
			return n, fmt.Errorf("csv: read: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if err := p.fill(b, rec, colIx, line); err != nil {
			return n, err
		}
		if err := b.AddRecord(); err != nil {
			return n, err
		}
		n++
		if n%logEveryN == 0 {
			p.log.Debug("csv: progress", zap.Int("line", line), zap.Int64("records", n))
		}
	}
}

// mapColumns returns colIx[schemaIndex] = csv field index.
func (p *Parser) mapColumns(cr *csv.Reader) ([]int, error) {
	colIx := make([]int, p.schema.Len())
	if !p.opt.HasHeader {
		for i := range colIx {
			colIx[i] = i
		}
		return colIx, nil
	}

	hdr, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			err = errors.New("missing header")
		}
		return nil, &ParseError{Line: 1, Err: fmt.Errorf("read header: %w", err)}
	}
	hdr = stripHeaderBOM(hdr)
	byName := make(map[string]int, len(hdr))
	for i, h := range hdr {
		byName[normalizeHeader(h)] = i
	}
	for i, c := range p.schema.Columns() {
		si, ok := byName[normalizeHeader(c.Name)]
		if !ok {
			return nil, &ParseError{Line: 1, Column: c.Name, Err: errors.New("column missing from header")}
		}
		colIx[i] = si
	}
	return colIx, nil
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

func (p *Parser) fill(b *page.Builder, rec []string, colIx []int, line int) error {
	for i, c := range p.schema.Columns() {
		si := colIx[i]
		if si >= len(rec) {
			return &ParseError{Line: line, Err: fmt.Errorf("expected at least %d fields, got %d", si+1, len(rec))}
		}
		v := rec[si]
		if p.opt.TrimSpace {
			v = strings.TrimSpace(v)
		}
		if v == p.opt.NullString {
			b.SetNull(c)
			continue
		}
		if err := setTyped(b, c, v); err != nil {
			return &ParseError{Line: line, Column: c.Name, Err: err}
		}
	}
	return nil
}

func setTyped(b *page.Builder, c schema.Column, v string) error {
	switch c.Type {
	case schema.String:
		b.SetString(c, v)
	case schema.Boolean:
		x, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		b.SetBoolean(c, x)
	case schema.Long:
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		b.SetLong(c, x)
	case schema.Double:
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		b.SetDouble(c, x)
	case schema.Timestamp:
		layout := c.Format
		if layout == "" {
			layout = time.RFC3339Nano
		}
		x, err := time.Parse(layout, v)
		if err != nil {
			return err
		}
		b.SetTimestamp(c, x)
	case schema.JSON:
		if !json.Valid([]byte(v)) {
			return errors.New("invalid json")
		}
		// rec is reused by the csv reader; the builder keeps its own copy.
		b.SetJSON(c, json.RawMessage(v))
	default:
		return fmt.Errorf("unsupported type %v", c.Type)
	}
	return nil
}
