package page

import (
	"encoding/json"
	"testing"
	"time"

	"fakerfilter/internal/schema"
)

var testSchema = schema.MustNew(
	schema.Def{Name: "ok", Type: schema.Boolean},
	schema.Def{Name: "id", Type: schema.Long},
	schema.Def{Name: "score", Type: schema.Double},
	schema.Def{Name: "name", Type: schema.String},
	schema.Def{Name: "at", Type: schema.Timestamp},
	schema.Def{Name: "doc", Type: schema.JSON},
)

// TestBuilder_PagesAndOrder verifies that records are split into pages of
// the configured size and arrive downstream in commit order.
func TestBuilder_PagesAndOrder(t *testing.T) {
	t.Parallel()

	var out Collector
	b := NewBuilder(testSchema, &out, 2)
	id := testSchema.Column(1)

	for i := int64(0); i < 5; i++ {
		b.SetLong(id, i)
		if err := b.AddRecord(); err != nil {
			t.Fatalf("AddRecord: %v", err)
		}
	}
	if err := b.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if got := len(out.Pages); got != 3 {
		t.Fatalf("pages = %d, want 3", got)
	}
	recs := out.Records()
	for i, r := range recs {
		if r[1] != int64(i) {
			t.Errorf("record %d id = %v", i, r[1])
		}
		if r[0] != nil {
			t.Errorf("record %d unset column should be nil, got %v", i, r[0])
		}
	}
	if !out.Finished || !out.Closed {
		t.Errorf("finished=%v closed=%v", out.Finished, out.Closed)
	}
	if b.Records() != 5 || b.Pages() != 3 {
		t.Errorf("records=%d pages=%d", b.Records(), b.Pages())
	}
}

// TestBuilder_CloseDropsUncommitted verifies that a half-built record is
// never emitted.
func TestBuilder_CloseDropsUncommitted(t *testing.T) {
	t.Parallel()

	var out Collector
	b := NewBuilder(testSchema, &out, 10)
	b.SetString(testSchema.Column(3), "partial")
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(out.Records()) != 0 {
		t.Fatalf("uncommitted record leaked downstream")
	}
	if err := b.AddRecord(); err != ErrBuilderClosed {
		t.Fatalf("AddRecord after Close = %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

// TestReader_TypedAccessors walks a page with every column type.
func TestReader_TypedAccessors(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 5, 1, 12, 30, 0, 123000000, time.UTC)
	p := New(
		[]any{true, int64(7), 1.5, "alice", at, json.RawMessage(`{"a":1}`)},
		[]any{nil, nil, nil, nil, nil, nil},
	)
	defer p.Release()

	r := NewReader(testSchema)
	r.SetPage(p)

	if !r.Next() {
		t.Fatal("expected first record")
	}
	cols := testSchema.Columns()
	if !r.Boolean(cols[0]) || r.Long(cols[1]) != 7 || r.Double(cols[2]) != 1.5 {
		t.Error("scalar accessors mismatch")
	}
	if r.String(cols[3]) != "alice" || !r.Timestamp(cols[4]).Equal(at) {
		t.Error("string/timestamp accessors mismatch")
	}
	if string(r.JSON(cols[5])) != `{"a":1}` {
		t.Error("json accessor mismatch")
	}

	if !r.Next() {
		t.Fatal("expected second record")
	}
	for _, c := range cols {
		if !r.IsNull(c) {
			t.Errorf("column %s should be null", c.Name)
		}
	}
	if r.Next() {
		t.Fatal("expected end of page")
	}
}

func TestGetRow_ZeroesValues(t *testing.T) {
	t.Parallel()

	r := GetRow(3)
	r.V[0], r.V[1], r.V[2] = "a", "b", "c"
	r.Free()

	r2 := GetRow(2)
	for i, v := range r2.V {
		if v != nil {
			t.Fatalf("V[%d] = %v, want nil", i, v)
		}
	}
	if len(r2.V) != 2 {
		t.Fatalf("len = %d, want 2", len(r2.V))
	}
}
