// Package csvfile registers the "csv" storage kind: one CSV file per
// partition, with a header row.
package csvfile

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"fakerfilter/internal/storage"
)

// Repository writes rows to a CSV file. Nulls are written as empty cells.
type Repository struct {
	path    string
	columns []string
	f       *os.File
	bw      *bufio.Writer
	w       *csv.Writer
	header  bool
	scratch []string
}

var _ storage.Repository = (*Repository)(nil)
var _ storage.Finisher = (*Repository)(nil)

// Create truncates or creates path, making parent directories as needed.
// columns, when given, is written as the header even if no rows arrive.
func Create(path string, columns []string) (*Repository, error) {
	if path == "" {
		return nil, fmt.Errorf("csv: path must not be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("csv: mkdir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	bw := bufio.NewWriterSize(f, 64*1024)
	return &Repository{path: path, columns: columns, f: f, bw: bw, w: csv.NewWriter(bw)}, nil
}

// Path returns the output path.
func (r *Repository) Path() string { return r.path }

// CopyFrom appends rows, writing the header before the first batch.
func (r *Repository) CopyFrom(_ context.Context, columns []string, rows [][]any) (int64, error) {
	if err := r.writeHeader(columns); err != nil {
		return 0, err
	}
	var n int64
	for _, row := range rows {
		if len(row) != len(columns) {
			return n, fmt.Errorf("csv: row length %d != columns length %d", len(row), len(columns))
		}
		for i, v := range row {
			r.scratch[i] = formatCell(v)
		}
		if err := r.w.Write(r.scratch); err != nil {
			return n, fmt.Errorf("csv: write: %w", err)
		}
		n++
	}
	return n, nil
}

func (r *Repository) writeHeader(columns []string) error {
	if r.header {
		return nil
	}
	if err := r.w.Write(columns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	r.header = true
	r.scratch = make([]string, len(columns))
	return nil
}

// Exec is not supported by file sinks.
func (r *Repository) Exec(context.Context, string) error {
	return fmt.Errorf("csv: exec is not supported")
}

// Finish writes the header if no rows were copied, then flushes buffered
// rows and syncs the file.
func (r *Repository) Finish(context.Context) error {
	if len(r.columns) > 0 {
		if err := r.writeHeader(r.columns); err != nil {
			return err
		}
	}
	r.w.Flush()
	if err := r.w.Error(); err != nil {
		return err
	}
	if err := r.bw.Flush(); err != nil {
		return err
	}
	return r.f.Sync()
}

// Close closes the file. Unflushed rows are dropped.
func (r *Repository) Close() { _ = r.f.Close() }

func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case json.RawMessage:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

func init() {
	storage.Register("csv", func(_ context.Context, cfg storage.Config) (storage.Repository, error) {
		var columns []string
		if cfg.Schema != nil {
			columns = cfg.Schema.Names()
		}
		return Create(cfg.ResolvedPath(), columns)
	})
}
