package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"fakerfilter/internal/schema"
	"fakerfilter/internal/storage"
)

// Repository loads rows with multi-row INSERTs, one transaction per CopyFrom.
type Repository struct {
	db      *sql.DB
	dialect Dialect
	table   string
	log     *zap.Logger
}

var _ storage.Repository = (*Repository)(nil)

// Open connects with driverName and pings within five seconds.
func Open(ctx context.Context, driverName, dsn string, d Dialect, table string, log *zap.Logger) (*Repository, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("%s: DSN must not be empty", d.Name)
	}
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", d.Name, err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: ping: %w", d.Name, err)
	}
	return New(db, d, table, log), nil
}

// New wraps an open database handle.
func New(db *sql.DB, d Dialect, table string, log *zap.Logger) *Repository {
	if log == nil {
		log = zap.NewNop()
	}
	return &Repository{db: db, dialect: d, table: table, log: log}
}

// DB exposes the handle for backend-specific setup.
func (r *Repository) DB() *sql.DB { return r.db }

// CopyFrom inserts rows in chunks bounded by the dialect's parameter limit,
// all inside one transaction.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("%s: CopyFrom: columns must not be empty", r.dialect.Name)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin tx: %w", r.dialect.Name, err)
	}

	per := r.dialect.rowsPerStatement(len(columns))
	var inserted int64
	args := make([]any, 0, per*len(columns))
	for start := 0; start < len(rows); start += per {
		end := min(start+per, len(rows))
		args = args[:0]
		for _, row := range rows[start:end] {
			if len(row) != len(columns) {
				_ = tx.Rollback()
				return 0, fmt.Errorf("%s: CopyFrom: row length %d != columns length %d", r.dialect.Name, len(row), len(columns))
			}
			for _, v := range row {
				if r.dialect.Value != nil {
					v = r.dialect.Value(v)
				}
				args = append(args, v)
			}
		}
		q := r.dialect.InsertSQL(r.table, columns, end-start)
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("%s: insert: %w", r.dialect.Name, err)
		}
		inserted += int64(end - start)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", r.dialect.Name, err)
	}
	return inserted, nil
}

// Exec runs a single statement.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	if strings.TrimSpace(sql) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, sql); err != nil {
		return fmt.Errorf("%s: exec: %w", r.dialect.Name, err)
	}
	return nil
}

// Close closes the database handle.
func (r *Repository) Close() {
	if err := r.db.Close(); err != nil {
		r.log.Warn("close database", zap.String("backend", r.dialect.Name), zap.Error(err))
	}
}

// Bootstrapper returns a storage.DDLBootstrapper that renders DDL with d.
func Bootstrapper(d Dialect) storage.DDLBootstrapper {
	return func(ctx context.Context, repo storage.Repository, table string, s *schema.Schema) error {
		stmt, err := d.CreateTableSQL(table, s)
		if err != nil {
			return err
		}
		return repo.Exec(ctx, stmt)
	}
}
