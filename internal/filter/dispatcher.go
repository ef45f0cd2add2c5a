package filter

import (
	"fmt"

	"go.uber.org/zap"

	"fakerfilter/internal/config"
	"fakerfilter/internal/faker"
	"fakerfilter/internal/metrics"
	"fakerfilter/internal/page"
	"fakerfilter/internal/schema"
)

// Dispatcher rewrites the records of every page it receives and forwards
// them to the downstream output. It implements page.Output so stages chain.
//
// A Dispatcher belongs to one open/close cycle and must be driven from a
// single goroutine.
type Dispatcher struct {
	schema   *schema.Schema
	plan     *Plan
	registry *faker.Registry
	reader   *page.Reader
	builder  *page.Builder
	log      *zap.Logger
	job      string

	pages     int64
	records   int64
	rewritten int64
	nullsKept int64
	closed    bool
}

var _ page.Output = (*Dispatcher)(nil)

// Add processes every record of p in order and releases p. On error the
// failing record is not committed and the cycle should be aborted.
func (d *Dispatcher) Add(p *page.Page) error {
	defer p.Release()

	var rewritten, nulls int64
	d.reader.SetPage(p)
	n := int64(0)
	for d.reader.Next() {
		rw, nk, err := d.visitRecord()
		if err != nil {
			return err
		}
		if err := d.builder.AddRecord(); err != nil {
			return err
		}
		rewritten += rw
		nulls += nk
		n++
	}

	d.pages++
	d.records += n
	d.rewritten += rewritten
	d.nullsKept += nulls
	metrics.RecordPages(d.job, 1)
	metrics.RecordRows(d.job, "processed", n)
	metrics.RecordRows(d.job, "rewritten", rewritten)
	metrics.RecordRows(d.job, "nulls_kept", nulls)
	return nil
}

// visitRecord copies or rewrites every column of the current record in
// schema order. It returns how many values were rewritten and how many
// targeted values stayed null.
func (d *Dispatcher) visitRecord() (rewritten, nullsKept int64, err error) {
	r, b := d.reader, d.builder
	for i := 0; i < d.schema.Len(); i++ {
		c := d.schema.Column(i)
		rule, targeted := d.plan.RuleAt(i)

		if r.IsNull(c) {
			b.SetNull(c)
			if targeted {
				nullsKept++
			}
			continue
		}
		if targeted && c.Type != schema.String {
			return 0, 0, &TypeMismatchError{Column: c.Name, Type: c.Type}
		}

		switch c.Type {
		case schema.Boolean:
			b.SetBoolean(c, r.Boolean(c))
		case schema.Long:
			b.SetLong(c, r.Long(c))
		case schema.Double:
			b.SetDouble(c, r.Double(c))
		case schema.Timestamp:
			b.SetTimestamp(c, r.Timestamp(c))
		case schema.JSON:
			b.SetJSON(c, r.JSON(c))
		case schema.String:
			if !targeted {
				b.SetString(c, r.String(c))
				continue
			}
			v, err := d.generate(c, rule)
			if err != nil {
				return 0, 0, err
			}
			b.SetString(c, v)
			rewritten++
		default:
			return 0, 0, fmt.Errorf("filter: column %q has unsupported type %v", c.Name, c.Type)
		}
	}
	return rewritten, nullsKept, nil
}

func (d *Dispatcher) generate(c schema.Column, rule config.ColumnRule) (string, error) {
	before := d.registry.Created()
	gen, err := d.registry.Get(rule.Locale)
	if err != nil {
		return "", fmt.Errorf("filter: column %q: %w", c.Name, err)
	}
	if d.registry.Created() > before {
		metrics.RecordGenerator(d.job, rule.Locale)
	}
	v, err := gen.Expression(rule.FakerExpression)
	if err != nil {
		return "", fmt.Errorf("filter: column %q: %w", c.Name, err)
	}
	return v, nil
}

// Finish flushes the pending page and signals downstream that no more
// records will arrive.
func (d *Dispatcher) Finish() error {
	if err := d.builder.Finish(); err != nil {
		return err
	}
	d.log.Info("dispatcher: finished",
		zap.Int64("pages", d.pages),
		zap.Int64("records", d.records),
		zap.Int64("rewritten", d.rewritten),
		zap.Int64("nulls_kept", d.nullsKept),
		zap.Int("generators", d.registry.Created()),
	)
	return nil
}

// Close releases the generator registry and closes downstream. Safe to call
// more than once and after a failed Add.
func (d *Dispatcher) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	regErr := d.registry.Close()
	if err := d.builder.Close(); err != nil {
		return err
	}
	return regErr
}

// Stats reports what the dispatcher has processed so far.
type Stats struct {
	Pages      int64
	Records    int64
	Rewritten  int64
	NullsKept  int64
	Generators int
}

// Stats returns a snapshot of the dispatcher counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Pages:      d.pages,
		Records:    d.records,
		Rewritten:  d.rewritten,
		NullsKept:  d.nullsKept,
		Generators: d.registry.Created(),
	}
}
