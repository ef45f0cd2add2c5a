package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"fakerfilter/internal/page"
	"fakerfilter/internal/schema"
)

// fakeRepo records what it receives.
type fakeRepo struct {
	columns  []string
	rows     [][]any
	execs    []string
	finished bool
	closed   int
	copyErr  error
}

func (f *fakeRepo) CopyFrom(_ context.Context, columns []string, rows [][]any) (int64, error) {
	if f.copyErr != nil {
		return 0, f.copyErr
	}
	f.columns = columns
	f.rows = append(f.rows, rows...)
	return int64(len(rows)), nil
}

func (f *fakeRepo) Exec(_ context.Context, sql string) error {
	f.execs = append(f.execs, sql)
	return nil
}

func (f *fakeRepo) Finish(context.Context) error { f.finished = true; return nil }

func (f *fakeRepo) Close() { f.closed++ }

var testSchema = schema.MustNew(
	schema.Def{Name: "id", Type: schema.Long},
	schema.Def{Name: "email", Type: schema.String},
)

func TestRegisterAndNew_Success(t *testing.T) {
	t.Parallel()

	Register("fake", func(context.Context, Config) (Repository, error) { return &fakeRepo{}, nil })

	repo, err := New(context.Background(), Config{Kind: "fake"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if repo == nil {
		t.Fatal("New returned nil repo")
	}
	found := false
	for _, k := range ListKinds() {
		if k == "fake" {
			found = true
		}
	}
	if !found {
		t.Fatalf("kind %q missing from ListKinds: %v", "fake", ListKinds())
	}
}

func TestNew_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{Kind: "does-not-exist"})
	if err == nil {
		t.Fatal("expected error for unsupported kind")
	}
	if got, want := err.Error(), "unsupported storage.kind=does-not-exist"; got != want {
		t.Fatalf("error = %q, want %q", got, want)
	}
}

func TestRegister_Override(t *testing.T) {
	t.Parallel()

	calls := 0
	Register("override", func(context.Context, Config) (Repository, error) { calls++; return &fakeRepo{}, nil })
	Register("override", func(context.Context, Config) (Repository, error) { calls += 10; return &fakeRepo{}, nil })

	if _, err := New(context.Background(), Config{Kind: "override"}); err != nil {
		t.Fatalf("New: %v", err)
	}
	if calls != 10 {
		t.Fatalf("factory call count = %d, want 10", calls)
	}
}

func TestListKinds_Snapshot(t *testing.T) {
	t.Parallel()

	Register("snap", func(context.Context, Config) (Repository, error) { return &fakeRepo{}, nil })
	a := ListKinds()
	a[0] = "mutated"
	if reflect.DeepEqual(a, ListKinds()) {
		t.Fatal("ListKinds returned shared slice; want a copy")
	}
}

func TestRegister_FactoryErrorsBubbleUp(t *testing.T) {
	t.Parallel()

	want := errors.New("boom")
	Register("errkind", func(context.Context, Config) (Repository, error) { return nil, want })
	if _, err := New(context.Background(), Config{Kind: "errkind"}); !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
}

func TestConfig_ResolvedPath(t *testing.T) {
	t.Parallel()

	c := Config{Path: "out/{partition}.csv", Partition: "customers"}
	if got := c.ResolvedPath(); got != "out/customers.csv" {
		t.Fatalf("ResolvedPath = %q", got)
	}
}

func TestSink_WritesPagesAndFinishes(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{}
	s := NewSink(context.Background(), repo, Config{Kind: "fake", Schema: testSchema})

	var out page.Output = s
	if err := out.Add(page.New([]any{int64(1), "a@x.com"}, []any{int64(2), nil})); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := out.Add(page.New()); err != nil {
		t.Fatalf("Add empty: %v", err)
	}
	if err := out.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	_ = out.Close()

	if want := []string{"id", "email"}; !reflect.DeepEqual(repo.columns, want) {
		t.Fatalf("columns = %v, want %v", repo.columns, want)
	}
	want := [][]any{{int64(1), "a@x.com"}, {int64(2), nil}}
	if !reflect.DeepEqual(repo.rows, want) {
		t.Fatalf("rows = %#v, want %#v", repo.rows, want)
	}
	if !repo.finished {
		t.Fatal("Finish did not reach the repository")
	}
	if repo.closed != 1 {
		t.Fatalf("closed %d times, want 1", repo.closed)
	}
	if s.Rows() != 2 {
		t.Fatalf("Rows = %d, want 2", s.Rows())
	}
}

func TestSink_CopyErrorIsWrapped(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk full")
	s := NewSink(context.Background(), &fakeRepo{copyErr: boom}, Config{Kind: "fake", Schema: testSchema})
	if err := s.Add(page.New([]any{int64(1), "x"})); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestOpen_AutoCreateTable(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{}
	Register("ddlkind", func(context.Context, Config) (Repository, error) { return repo, nil })
	RegisterDDL("ddlkind", func(ctx context.Context, r Repository, table string, s *schema.Schema) error {
		return r.Exec(ctx, "CREATE "+table+" "+s.String())
	})

	s, err := Open(context.Background(), Config{Kind: "ddlkind", Table: "t", AutoCreateTable: true, Schema: testSchema})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	if want := []string{"CREATE t [id:long, email:string]"}; !reflect.DeepEqual(repo.execs, want) {
		t.Fatalf("execs = %v, want %v", repo.execs, want)
	}
}

func TestOpen_MissingBootstrapperClosesRepo(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{}
	Register("noddl", func(context.Context, Config) (Repository, error) { return repo, nil })

	_, err := Open(context.Background(), Config{Kind: "noddl", Table: "t", AutoCreateTable: true, Schema: testSchema})
	if err == nil {
		t.Fatal("expected error without DDL bootstrapper")
	}
	if repo.closed != 1 {
		t.Fatalf("repository not closed after failed bootstrap")
	}
}
