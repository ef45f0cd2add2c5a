package postgres

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"fakerfilter/internal/page"
	"fakerfilter/internal/schema"
	"fakerfilter/internal/storage"
)

// fakeCopier captures COPY calls without a database.
type fakeCopier struct {
	table   pgx.Identifier
	columns []string
	rows    [][]any
	execs   []string
	err     error
}

func (f *fakeCopier) CopyFrom(_ context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.table, f.columns = table, columns
	var n int64
	for src.Next() {
		vals, err := src.Values()
		if err != nil {
			return n, err
		}
		f.rows = append(f.rows, vals)
		n++
	}
	return n, src.Err()
}

func (f *fakeCopier) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	return pgconn.CommandTag{}, nil
}

var people = schema.MustNew(
	schema.Def{Name: "id", Type: schema.Long},
	schema.Def{Name: "email", Type: schema.String},
	schema.Def{Name: "doc", Type: schema.JSON},
)

func withFake(t *testing.T, fc *fakeCopier) *bool {
	t.Helper()
	orig := newRepository
	t.Cleanup(func() { newRepository = orig })
	closed := new(bool)
	newRepository = func(_ context.Context, cfg Config) (*Repository, func(), error) {
		return &Repository{copier: fc, cfg: cfg}, func() { *closed = true }, nil
	}
	return closed
}

func TestSinkCopiesThroughRegisteredBackend(t *testing.T) {
	fc := &fakeCopier{}
	closed := withFake(t, fc)

	sink, err := storage.Open(context.Background(), storage.Config{
		Kind:            "postgres",
		DSN:             "postgres://localhost/test",
		Table:           "public.people",
		AutoCreateTable: true,
		Schema:          people,
	})
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	if err := sink.Add(page.New([]any{int64(1), "a@x.com", nil})); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := sink.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	_ = sink.Close()

	if want := (pgx.Identifier{"public", "people"}); !reflect.DeepEqual(fc.table, want) {
		t.Fatalf("table = %v, want %v", fc.table, want)
	}
	if want := []string{"id", "email", "doc"}; !reflect.DeepEqual(fc.columns, want) {
		t.Fatalf("columns = %v, want %v", fc.columns, want)
	}
	if len(fc.rows) != 1 || fc.rows[0][1] != "a@x.com" {
		t.Fatalf("rows = %#v", fc.rows)
	}
	if len(fc.execs) != 1 || !strings.HasPrefix(fc.execs[0], `CREATE TABLE IF NOT EXISTS "public"."people"`) {
		t.Fatalf("execs = %v", fc.execs)
	}
	if !*closed {
		t.Fatal("Close did not release the pool")
	}
}

func TestCopyFrom_PgErrorDetail(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{Code: "23502", Detail: "Failing row contains (null)."}
	r := &Repository{copier: &fakeCopier{err: pgErr}, cfg: Config{Table: "people"}}

	_, err := r.CopyFrom(context.Background(), []string{"id"}, [][]any{{nil}})
	if !errors.As(err, new(*pgconn.PgError)) {
		t.Fatalf("err = %v, want wrapped *pgconn.PgError", err)
	}
	if !strings.Contains(err.Error(), "Failing row") {
		t.Fatalf("err %q lacks detail", err)
	}
}

func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	s := schema.MustNew(
		schema.Def{Name: "ok", Type: schema.Boolean},
		schema.Def{Name: "weird\"name", Type: schema.Double},
		schema.Def{Name: "at", Type: schema.Timestamp},
	)
	got, err := BuildCreateTableSQL("people", s)
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	want := "CREATE TABLE IF NOT EXISTS \"people\" (\n  \"ok\" boolean,\n  \"weird\"\"name\" double precision,\n  \"at\" timestamptz\n);"
	if got != want {
		t.Fatalf("got\n%s\nwant\n%s", got, want)
	}
	if _, err := BuildCreateTableSQL("", s); err == nil {
		t.Fatal("expected error for empty table")
	}
}

func TestSplitFQN(t *testing.T) {
	t.Parallel()

	cases := map[string]pgx.Identifier{
		"people":        {"people"},
		"public.people": {"public", "people"},
		"a..b":          {"a", "b"},
	}
	for in, want := range cases {
		if got := splitFQN(in); !reflect.DeepEqual(got, want) {
			t.Errorf("splitFQN(%q) = %v, want %v", in, got, want)
		}
	}
}
