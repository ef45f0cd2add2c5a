// Package storage is the sink side of a run: a registry of backends keyed by
// storage kind, and a page.Output adapter that writes rewritten pages into a
// backend Repository.
package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"fakerfilter/internal/schema"
)

// Repository is a write-only destination for typed rows.
type Repository interface {
	// CopyFrom appends rows whose values follow columns order.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)
	// Exec runs a statement, typically DDL.
	Exec(ctx context.Context, sql string) error
	Close()
}

// Finisher is implemented by repositories that buffer writes.
type Finisher interface {
	Finish(ctx context.Context) error
}

// Config is the backend-neutral sink configuration for one partition.
type Config struct {
	Kind string

	// Path is the output file for file sinks; "{partition}" is replaced by
	// Partition.
	Path      string
	Partition string

	DSN             string
	Table           string
	AutoCreateTable bool

	// Schema is the record schema written by the sink.
	Schema *schema.Schema

	Log *zap.Logger
}

// ResolvedPath returns Path with the partition placeholder expanded.
func (c Config) ResolvedPath() string {
	return strings.ReplaceAll(c.Path, "{partition}", c.Partition)
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for kind. Backends call it from
// init.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens the Repository registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered kinds, sorted.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
