package page

import (
	"encoding/json"
	"time"

	"fakerfilter/internal/schema"
)

// Page is an ordered batch of records. A nil value in a record is SQL NULL;
// non-nil values have the Go type matching the column's schema.Type:
//
//	boolean   -> bool
//	long      -> int64
//	double    -> float64
//	string    -> string
//	timestamp -> time.Time
//	json      -> json.RawMessage
type Page struct {
	rows []*Row
}

// New builds a page from literal records. Values are copied into pooled rows.
// Intended for sources that already hold whole records and for tests.
func New(records ...[]any) *Page {
	p := &Page{rows: make([]*Row, 0, len(records))}
	for _, rec := range records {
		r := GetRow(len(rec))
		copy(r.V, rec)
		p.rows = append(p.rows, r)
	}
	return p
}

// Len returns the number of records in p.
func (p *Page) Len() int { return len(p.rows) }

// Records returns copies of all records; useful for sinks that outlive the
// page and for tests.
func (p *Page) Records() [][]any {
	out := make([][]any, len(p.rows))
	for i, r := range p.rows {
		rec := make([]any, len(r.V))
		copy(rec, r.V)
		out[i] = rec
	}
	return out
}

// Release returns every row to the pool. p must not be used afterwards.
func (p *Page) Release() {
	for _, r := range p.rows {
		r.Free()
	}
	p.rows = nil
}

// Output is the downstream side of a stage. Add takes ownership of the page;
// the implementation releases it once consumed. Finish signals that no more
// pages will arrive; Close releases resources and must be safe to call after
// a failed Add or without Finish.
type Output interface {
	Add(p *Page) error
	Finish() error
	Close() error
}

// Reader is a forward-only cursor over the records of a page.
type Reader struct {
	schema *schema.Schema
	page   *Page
	pos    int
}

// NewReader returns a Reader for pages conforming to s.
func NewReader(s *schema.Schema) *Reader {
	return &Reader{schema: s, pos: -1}
}

// SetPage positions the reader before the first record of p.
func (r *Reader) SetPage(p *Page) {
	r.page = p
	r.pos = -1
}

// Next advances to the next record and reports whether one exists.
func (r *Reader) Next() bool {
	if r.page == nil || r.pos+1 >= r.page.Len() {
		return false
	}
	r.pos++
	return true
}

func (r *Reader) value(c schema.Column) any { return r.page.rows[r.pos].V[c.Index] }

func (r *Reader) IsNull(c schema.Column) bool { return r.value(c) == nil }

func (r *Reader) Boolean(c schema.Column) bool { return r.value(c).(bool) }

func (r *Reader) Long(c schema.Column) int64 { return r.value(c).(int64) }

func (r *Reader) Double(c schema.Column) float64 { return r.value(c).(float64) }

func (r *Reader) String(c schema.Column) string { return r.value(c).(string) }

func (r *Reader) Timestamp(c schema.Column) time.Time { return r.value(c).(time.Time) }

func (r *Reader) JSON(c schema.Column) json.RawMessage { return r.value(c).(json.RawMessage) }
