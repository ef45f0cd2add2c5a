package file

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ReadList reads a text file and returns its non-empty lines, skipping
// lines that start with '#'. Order is preserved.
func ReadList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Expand turns configured source paths into a de-duplicated list of files.
//
//   - "@list.txt" reads further entries from list.txt (see ReadList);
//     relative entries resolve against the list file's directory.
//   - Entries containing glob metacharacters expand in lexical order and
//     must match at least one file.
//   - Plain paths are kept as is; their existence is checked on Open.
func Expand(paths []string) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	var expand func(entries []string, base string, depth int) error
	expand = func(entries []string, base string, depth int) error {
		for _, e := range entries {
			if list, ok := strings.CutPrefix(e, "@"); ok {
				if depth > 0 {
					return fmt.Errorf("nested list file %s", e)
				}
				list = resolve(base, list)
				lines, err := ReadList(list)
				if err != nil {
					return fmt.Errorf("read list %s: %w", list, err)
				}
				if err := expand(lines, filepath.Dir(list), depth+1); err != nil {
					return err
				}
				continue
			}
			e = resolve(base, e)
			if !strings.ContainsAny(e, "*?[") {
				add(e)
				continue
			}
			matches, err := filepath.Glob(e)
			if err != nil {
				return fmt.Errorf("glob %s: %w", e, err)
			}
			if len(matches) == 0 {
				return fmt.Errorf("glob %s: no files match", e)
			}
			sort.Strings(matches)
			for _, m := range matches {
				add(m)
			}
		}
		return nil
	}
	if err := expand(paths, "", 0); err != nil {
		return nil, err
	}
	return out, nil
}

func resolve(base, p string) string {
	if base == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
