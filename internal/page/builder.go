package page

import (
	"encoding/json"
	"errors"
	"time"

	"fakerfilter/internal/schema"
)

// DefaultPageSize is the number of records per emitted page when the caller
// passes a non-positive size.
const DefaultPageSize = 1024

// ErrBuilderClosed is returned by Builder methods after Close.
var ErrBuilderClosed = errors.New("page builder is closed")

// Builder assembles records column by column and forwards full pages to an
// Output. A record becomes visible downstream only after AddRecord; values
// set for an uncommitted record are discarded by Close.
type Builder struct {
	schema   *schema.Schema
	out      Output
	pageSize int

	cur     *Row
	page    *Page
	records int64
	pages   int64
	closed  bool
}

// NewBuilder returns a Builder that emits pages of pageSize records into out.
func NewBuilder(s *schema.Schema, out Output, pageSize int) *Builder {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Builder{
		schema:   s,
		out:      out,
		pageSize: pageSize,
		cur:      GetRow(s.Len()),
		page:     &Page{rows: make([]*Row, 0, pageSize)},
	}
}

func (b *Builder) SetNull(c schema.Column) { b.cur.V[c.Index] = nil }

func (b *Builder) SetBoolean(c schema.Column, v bool) { b.cur.V[c.Index] = v }

func (b *Builder) SetLong(c schema.Column, v int64) { b.cur.V[c.Index] = v }

func (b *Builder) SetDouble(c schema.Column, v float64) { b.cur.V[c.Index] = v }

func (b *Builder) SetString(c schema.Column, v string) { b.cur.V[c.Index] = v }

func (b *Builder) SetTimestamp(c schema.Column, v time.Time) { b.cur.V[c.Index] = v }

func (b *Builder) SetJSON(c schema.Column, v json.RawMessage) { b.cur.V[c.Index] = v }

// AddRecord commits the current record and starts a new one. A full page is
// flushed downstream.
func (b *Builder) AddRecord() error {
	if b.closed {
		return ErrBuilderClosed
	}
	b.page.rows = append(b.page.rows, b.cur)
	b.cur = GetRow(b.schema.Len())
	b.records++
	if len(b.page.rows) >= b.pageSize {
		return b.Flush()
	}
	return nil
}

// Flush forwards the pending page, if any, without finishing the output.
func (b *Builder) Flush() error {
	if b.closed {
		return ErrBuilderClosed
	}
	if len(b.page.rows) == 0 {
		return nil
	}
	p := b.page
	b.page = &Page{rows: make([]*Row, 0, b.pageSize)}
	b.pages++
	return b.out.Add(p)
}

// Finish flushes the pending page and finishes the output.
func (b *Builder) Finish() error {
	if err := b.Flush(); err != nil {
		return err
	}
	return b.out.Finish()
}

// Close discards any uncommitted record or unflushed page and closes the
// output. It is safe to call more than once.
func (b *Builder) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	if b.cur != nil {
		b.cur.Free()
		b.cur = nil
	}
	if b.page != nil {
		b.page.Release()
	}
	return b.out.Close()
}

// Records returns the number of committed records.
func (b *Builder) Records() int64 { return b.records }

// Pages returns the number of pages forwarded downstream.
func (b *Builder) Pages() int64 { return b.pages }
