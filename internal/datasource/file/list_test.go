package file

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestReadList_SkipsBlankAndComments(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "list.txt", `
# inputs
a.csv
   # indented comment
b.csv

   c.csv
`)
	got, err := ReadList(path)
	if err != nil {
		t.Fatalf("ReadList: %v", err)
	}
	want := []string{"a.csv", "b.csv", "c.csv"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ReadList = %#v, want %#v", got, want)
	}
}

func TestReadList_FileNotFound(t *testing.T) {
	t.Parallel()

	if _, err := ReadList(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestExpand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, n := range []string{"b.csv", "a.csv", "c.txt"} {
		writeFile(t, dir, n, "x\n")
	}
	list := writeFile(t, dir, "inputs.txt", "c.txt\n# skip\na.csv\n")

	got, err := Expand([]string{
		filepath.Join(dir, "*.csv"),
		"@" + list,
		"/abs/plain.csv",
	})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.csv"),
		filepath.Join(dir, "b.csv"),
		filepath.Join(dir, "c.txt"),
		"/abs/plain.csv",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Expand = %#v, want %#v", got, want)
	}
}

func TestExpand_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	inner := writeFile(t, dir, "inner.txt", "a.csv\n")
	outer := writeFile(t, dir, "outer.txt", "@"+inner+"\n")

	cases := map[string][]string{
		"glob_without_match": {filepath.Join(dir, "*.parquet")},
		"missing_list":       {"@" + filepath.Join(dir, "missing.txt")},
		"nested_list":        {"@" + outer},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := Expand(in)
			if err == nil {
				t.Fatalf("Expand(%v) = nil error", in)
			}
			if name == "nested_list" && !strings.Contains(err.Error(), "nested") {
				t.Fatalf("error %q does not mention nesting", err)
			}
		})
	}
}
