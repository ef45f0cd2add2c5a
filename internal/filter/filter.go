// Package filter implements the faker filter stage: it rewrites configured
// string columns with synthetic values and passes every other value through
// untouched, preserving schema, record order and nulls.
//
// Lifecycle:
//
//	f := filter.New(cfg.Filter)
//	out, err := f.Transaction(in)           // setup: validate rules, declare schema
//	d, err := f.Open(in, out, sink)         // per partition
//	for each page { d.Add(page) }
//	d.Finish()
//	d.Close()
//
// Transaction fails fast on configuration errors before any data flows. Open
// validates the rules again against the schema it is given so that a schema
// drifting between setup and open is caught before the first record.
package filter

import (
	"fmt"

	"go.uber.org/zap"

	"fakerfilter/internal/config"
	"fakerfilter/internal/faker"
	"fakerfilter/internal/page"
	"fakerfilter/internal/schema"
)

// Filter is the stage controller. It is immutable after New and may open
// any number of independent dispatchers, each with its own registry.
type Filter struct {
	cfg        config.Filter
	capability faker.Capability
	log        *zap.Logger
	job        string
	pageSize   int
}

// Option configures a Filter.
type Option func(*Filter)

// WithCapability replaces the default gofakeit-backed generation capability.
func WithCapability(c faker.Capability) Option { return func(f *Filter) { f.capability = c } }

// WithLogger sets the logger used by the filter and its dispatchers.
func WithLogger(l *zap.Logger) Option { return func(f *Filter) { f.log = l } }

// WithJob sets the job label for metrics.
func WithJob(job string) Option { return func(f *Filter) { f.job = job } }

// WithPageSize sets the number of records per output page.
func WithPageSize(n int) Option { return func(f *Filter) { f.pageSize = n } }

// New returns a Filter for cfg.
func New(cfg config.Filter, opts ...Option) *Filter {
	f := &Filter{
		cfg:      cfg,
		log:      zap.NewNop(),
		job:      "fakerfilter",
		pageSize: page.DefaultPageSize,
	}
	for _, o := range opts {
		o(f)
	}
	if f.capability == nil {
		f.capability = faker.NewGofakeit(cfg.Seed).WithLogger(f.log)
	}
	return f
}

// Transaction validates the configuration against the input schema and
// returns the output schema, which is the input schema itself.
func (f *Filter) Transaction(in *schema.Schema) (*schema.Schema, error) {
	if f.cfg.Type != "" && f.cfg.Type != "faker" {
		return nil, fmt.Errorf("filter: unsupported filter type %q", f.cfg.Type)
	}
	plan, err := BuildPlan(in, f.cfg.Columns)
	if err != nil {
		return nil, err
	}
	f.log.Info("filter: transaction",
		zap.Stringer("schema", in),
		zap.Int("targets", plan.Len()),
	)
	return in, nil
}

// Open binds the schemas, a freshly validated plan and a new generator
// registry, and returns a dispatcher that writes into out.
func (f *Filter) Open(in, outSchema *schema.Schema, out page.Output) (*Dispatcher, error) {
	if !in.Equal(outSchema) {
		return nil, fmt.Errorf("filter: output schema %s differs from input schema %s", outSchema, in)
	}
	plan, err := BuildPlan(in, f.cfg.Columns)
	if err != nil {
		return nil, err
	}
	return &Dispatcher{
		schema:   in,
		plan:     plan,
		registry: faker.NewRegistry(f.capability, f.log),
		reader:   page.NewReader(in),
		builder:  page.NewBuilder(outSchema, out, f.pageSize),
		log:      f.log,
		job:      f.job,
	}, nil
}
