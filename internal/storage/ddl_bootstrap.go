package storage

import (
	"context"
	"fmt"
	"sync"

	"fakerfilter/internal/schema"
)

// DDLBootstrapper creates table for s through repo if it does not exist.
type DDLBootstrapper func(ctx context.Context, repo Repository, table string, s *schema.Schema) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL installs (or replaces) the DDLBootstrapper for kind.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureTable runs the bootstrapper registered for cfg.Kind.
func EnsureTable(ctx context.Context, cfg Config, repo Repository) error {
	ddlMu.RLock()
	fn, ok := ddlFns[cfg.Kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage.kind=%q", cfg.Kind)
	}
	if cfg.Schema == nil {
		return fmt.Errorf("storage: %s: schema is required to create %s", cfg.Kind, cfg.Table)
	}
	return fn(ctx, repo, cfg.Table, cfg.Schema)
}
