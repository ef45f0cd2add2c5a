// Package page provides the fixed-width, typed record containers that move
// between pipeline stages. This file defines the pooled Row type used by
// Builder so that steady-state page building does not allocate per record.
package page

import "sync"

// Row is a pooled container holding one positional record.
//
// Contract:
//   - The owner writes into r.V[0:colCount] (no re-slice growth).
//   - Once the page holding the row has been consumed, the consumer
//     **must** call Page.Release (which frees every row).
//   - Do not retain references to r or r.V beyond the owning stage.
//
// V is []any so that SQL sinks can hand it to COPY/INSERT directly.
type Row struct {
	V []any
}

var rowPool sync.Pool

// GetRow returns a pooled Row with length colCount and all values nil.
func GetRow(colCount int) *Row {
	if v := rowPool.Get(); v != nil {
		r := v.(*Row)
		if cap(r.V) < colCount {
			r.V = make([]any, colCount)
		}
		r.V = r.V[:colCount]
		for i := range r.V {
			r.V[i] = nil
		}
		return r
	}
	return &Row{V: make([]any, colCount)}
}

// Free returns the Row to the pool. The caller must not use r after Free().
func (r *Row) Free() {
	// Drop references so pooled rows do not pin large strings.
	for i := range r.V {
		r.V[i] = nil
	}
	rowPool.Put(r)
}
