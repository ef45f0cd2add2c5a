// Package parser defines how raw input becomes typed records.
package parser

import (
	"context"
	"io"

	"fakerfilter/internal/page"
)

// Parser decodes r into records of the builder's schema, committing each
// record with AddRecord. It returns the number of records committed.
// Finishing and closing the builder is the caller's job.
type Parser interface {
	Parse(ctx context.Context, r io.Reader, b *page.Builder) (int64, error)
}
