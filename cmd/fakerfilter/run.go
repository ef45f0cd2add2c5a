package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/zeebo/xxh3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fakerfilter/internal/config"
	"fakerfilter/internal/datasource"
	"fakerfilter/internal/datasource/file"
	"fakerfilter/internal/filter"
	"fakerfilter/internal/metrics"
	"fakerfilter/internal/page"
	"fakerfilter/internal/parser/csv"
	"fakerfilter/internal/schema"
	"fakerfilter/internal/storage"
)

// runStats aggregates dispatcher counters over all partitions.
type runStats struct {
	Partitions int
	Records    int64
	Rewritten  int64
	NullsKept  int64
}

func (s *runStats) add(d filter.Stats) {
	s.Partitions++
	s.Records += d.Records
	s.Rewritten += d.Rewritten
	s.NullsKept += d.NullsKept
}

// runPipeline validates p, runs the filter transaction once and then every
// input partition through parse -> filter -> sink, at most
// runtime.workers partitions at a time. The first failing partition cancels
// the rest.
func runPipeline(ctx context.Context, p config.Pipeline, log *zap.Logger) (runStats, error) {
	var st runStats

	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		if iss.Severity == config.SeverityWarning {
			log.Warn("config", zap.String("path", iss.Path), zap.String("message", iss.Message))
		}
	}
	if config.HasErrors(issues) {
		var errs []error
		for _, iss := range issues {
			if iss.Severity == config.SeverityError {
				errs = append(errs, iss)
			}
		}
		return st, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	in, err := config.BuildSchema(p.Parser.Columns)
	if err != nil {
		return st, err
	}

	start := time.Now()
	out, err := newFilter(p, p.Filter.Seed, log).Transaction(in)
	metrics.RecordStep(p.Job, "transaction", err, time.Since(start))
	if err != nil {
		return st, err
	}

	paths, err := file.Expand(p.Source.Paths)
	if err != nil {
		return st, err
	}
	sources := make([]datasource.Source, len(paths))
	for i, path := range paths {
		sources[i] = file.NewLocal(path)
	}
	if err := checkPartitionNames(p.Storage, sources); err != nil {
		return st, err
	}

	workers := p.Runtime.Workers
	if workers <= 0 {
		workers = 1
	}
	log.Info("run: starting",
		zap.String("job", p.Job),
		zap.Int("partitions", len(sources)),
		zap.Int("workers", workers),
		zap.String("storage", p.Storage.Kind),
	)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, src := range sources {
		g.Go(func() error {
			start := time.Now()
			ps, err := runPartition(gctx, p, in, out, src, log.With(zap.String("partition", src.Name())))
			metrics.RecordStep(p.Job, "partition", err, time.Since(start))
			if err != nil {
				return fmt.Errorf("partition %s: %w", src.Name(), err)
			}
			mu.Lock()
			st.add(ps)
			mu.Unlock()
			return nil
		})
	}
	err = g.Wait()
	return st, err
}

// runPartition wires source -> csv parser -> page builder -> dispatcher ->
// sink for one input. Closing the builder closes the whole chain.
func runPartition(ctx context.Context, p config.Pipeline, in, out *schema.Schema, src datasource.Source, log *zap.Logger) (filter.Stats, error) {
	sink, err := storage.Open(ctx, storage.Config{
		Kind:            p.Storage.Kind,
		Path:            p.Storage.Path,
		Partition:       src.Name(),
		DSN:             p.Storage.DB.DSN,
		Table:           p.Storage.DB.Table,
		AutoCreateTable: p.Storage.DB.AutoCreateTable,
		Schema:          out,
		Log:             log,
	})
	if err != nil {
		return filter.Stats{}, err
	}

	d, err := newFilter(p, partitionSeed(p.Filter.Seed, src.Name()), log).Open(in, out, sink)
	if err != nil {
		_ = sink.Close()
		return filter.Stats{}, err
	}
	b := page.NewBuilder(in, d, p.Runtime.PageSize)
	defer b.Close()

	rc, err := src.Open(ctx)
	if err != nil {
		return filter.Stats{}, err
	}
	defer rc.Close()

	parser := csv.NewParser(in, csv.OptionsFrom(p.Parser.Options), log)
	if _, err := parser.Parse(ctx, rc, b); err != nil {
		return d.Stats(), err
	}
	if err := b.Finish(); err != nil {
		return d.Stats(), err
	}
	if err := b.Close(); err != nil {
		return d.Stats(), err
	}
	return d.Stats(), nil
}

func newFilter(p config.Pipeline, seed uint64, log *zap.Logger) *filter.Filter {
	cfg := p.Filter
	cfg.Seed = seed
	return filter.New(cfg,
		filter.WithLogger(log),
		filter.WithJob(p.Job),
		filter.WithPageSize(p.Runtime.PageSize),
	)
}

// partitionSeed derives a per-partition seed so that partitions do not
// repeat each other's value streams. Zero stays zero (random).
func partitionSeed(seed uint64, partition string) uint64 {
	if seed == 0 {
		return 0
	}
	s := xxh3.HashString(strconv.FormatUint(seed, 10) + "#" + partition)
	if s == 0 {
		s = 1
	}
	return s
}

// checkPartitionNames rejects file sinks whose outputs would collide.
func checkPartitionNames(s config.Storage, sources []datasource.Source) error {
	if s.Kind != "csv" {
		return nil
	}
	if len(sources) > 1 && !strings.Contains(s.Path, "{partition}") {
		return fmt.Errorf("storage.path %q must contain {partition} when reading %d inputs", s.Path, len(sources))
	}
	seen := make(map[string]struct{}, len(sources))
	for _, src := range sources {
		if _, dup := seen[src.Name()]; dup {
			return fmt.Errorf("two inputs share the partition name %q", src.Name())
		}
		seen[src.Name()] = struct{}{}
	}
	return nil
}
