package datadog

import (
	"reflect"
	"testing"

	"fakerfilter/internal/metrics"
)

type fakeClient struct {
	counts []string
	hists  []string
	tags   [][]string
	closed bool
}

func (f *fakeClient) Count(name string, value int64, tags []string, rate float64) error {
	f.counts = append(f.counts, name)
	f.tags = append(f.tags, tags)
	return nil
}

func (f *fakeClient) Histogram(name string, value float64, tags []string, rate float64) error {
	f.hists = append(f.hists, name)
	return nil
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func TestNewBackend_RequiresAddr(t *testing.T) {
	t.Parallel()

	if _, err := NewBackend(Config{}); err == nil {
		t.Fatal("expected error for empty Addr")
	}
}

func TestBackend_ForwardsToClient(t *testing.T) {
	t.Parallel()

	fc := &fakeClient{}
	b := &Backend{client: fc}

	b.IncCounter(metrics.RecordsTotal, 4, metrics.Labels{"kind": "rewritten", "job": "j"})
	b.ObserveHistogram(metrics.StepDuration, 0.5, nil)
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if len(fc.counts) != 1 || fc.counts[0] != metrics.RecordsTotal {
		t.Fatalf("counts = %v", fc.counts)
	}
	if want := []string{"job:j", "kind:rewritten"}; !reflect.DeepEqual(fc.tags[0], want) {
		t.Fatalf("tags = %v, want %v", fc.tags[0], want)
	}
	if len(fc.hists) != 1 || !fc.closed {
		t.Fatalf("hists=%v closed=%v", fc.hists, fc.closed)
	}
}

func TestBackend_NilClientIsNop(t *testing.T) {
	t.Parallel()

	b := &Backend{}
	b.IncCounter("x", 1, nil)
	b.ObserveHistogram("y", 1, nil)
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}
