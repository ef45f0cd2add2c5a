package storage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fakerfilter/internal/page"
)

// Sink adapts a Repository to page.Output. Each page becomes one CopyFrom.
type Sink struct {
	ctx     context.Context
	repo    Repository
	cfg     Config
	columns []string
	log     *zap.Logger

	rows   int64
	start  time.Time
	closed bool
}

var _ page.Output = (*Sink)(nil)

// Open creates the Repository for cfg, bootstraps the table when
// cfg.AutoCreateTable is set, and returns a Sink writing into it.
func Open(ctx context.Context, cfg Config) (*Sink, error) {
	if cfg.Schema == nil {
		return nil, fmt.Errorf("storage: schema is required")
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	repo, err := New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.AutoCreateTable {
		if err := EnsureTable(ctx, cfg, repo); err != nil {
			repo.Close()
			return nil, err
		}
	}
	return NewSink(ctx, repo, cfg), nil
}

// NewSink wraps an open Repository.
func NewSink(ctx context.Context, repo Repository, cfg Config) *Sink {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Sink{
		ctx:     ctx,
		repo:    repo,
		cfg:     cfg,
		columns: cfg.Schema.Names(),
		log:     log,
		start:   time.Now(),
	}
}

// Add writes p and releases it.
func (s *Sink) Add(p *page.Page) error {
	defer p.Release()
	if p.Len() == 0 {
		return nil
	}
	n, err := s.repo.CopyFrom(s.ctx, s.columns, p.Records())
	s.rows += n
	if err != nil {
		return fmt.Errorf("storage: %s: copy %d rows: %w", s.cfg.Kind, p.Len(), err)
	}
	return nil
}

// Finish flushes buffering repositories.
func (s *Sink) Finish() error {
	if f, ok := s.repo.(Finisher); ok {
		if err := f.Finish(s.ctx); err != nil {
			return fmt.Errorf("storage: %s: finish: %w", s.cfg.Kind, err)
		}
	}
	s.log.Info("sink: finished",
		zap.String("kind", s.cfg.Kind),
		zap.String("partition", s.cfg.Partition),
		zap.Int64("rows", s.rows),
		zap.Duration("elapsed", time.Since(s.start)),
	)
	return nil
}

// Close releases the repository. Safe to call more than once.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.repo.Close()
	return nil
}

// Rows returns how many rows the repository accepted.
func (s *Sink) Rows() int64 { return s.rows }
