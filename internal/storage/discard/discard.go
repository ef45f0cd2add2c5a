// Package discard registers the "null" storage kind, which accepts and drops
// every row. Used for dry runs and benchmarks.
package discard

import (
	"context"
	"sync/atomic"

	"fakerfilter/internal/schema"
	"fakerfilter/internal/storage"
)

// Repository counts rows and drops them.
type Repository struct {
	rows atomic.Int64
}

func (r *Repository) CopyFrom(_ context.Context, _ []string, rows [][]any) (int64, error) {
	r.rows.Add(int64(len(rows)))
	return int64(len(rows)), nil
}

func (r *Repository) Exec(context.Context, string) error { return nil }

func (r *Repository) Close() {}

// Rows returns how many rows were dropped.
func (r *Repository) Rows() int64 { return r.rows.Load() }

func init() {
	storage.Register("null", func(context.Context, storage.Config) (storage.Repository, error) {
		return &Repository{}, nil
	})
	storage.RegisterDDL("null", func(context.Context, storage.Repository, string, *schema.Schema) error { return nil })
}
