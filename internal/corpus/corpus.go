// Package corpus runs golden file tests: every test file is parsed, the output
// is compared with files stored next to it.
package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pmezard/go-difflib/difflib"
)

// Corpus is a table-driven test where the table is a directory tree.
type Corpus struct {
	// Root is the test data directory relative to the directory of the calling test file.
	Root string

	// Refresh is the name of environment variable holding a glob of test names
	// whose output files are rewritten instead of compared.
	Refresh string

	// Extension of test files without a dot.
	Extension string

	// Outputs are found at <test file>.<Output.Extension>, a missing file is an empty expected output.
	Outputs []Output

	// Test runs a single test file and returns outputs in Outputs order.
	Test func(t *testing.T, path, text string) []string
}

// Output is an expected output of a test.
type Output struct {
	Extension string
	// Compare is nil for byte-for-byte comparison.
	Compare Compare
}

// Compare returns empty string if got matches want, otherwise a description of differences.
type Compare func(got, want string) string

func (c Corpus) Run(t *testing.T) {
	testDir := callerDir(0)
	root := filepath.Join(testDir, c.Root)

	var tests []string
	e := filepath.WalkDir(root, func(p string, d fs.DirEntry, e error) error {
		if e == nil && !d.IsDir() && strings.TrimPrefix(filepath.Ext(p), ".") == c.Extension {
			tests = append(tests, p)
		}
		return e
	})
	if e != nil {
		t.Fatal("corpus: cannot walk test data:", e)
	}
	if len(tests) == 0 {
		t.Fatalf("corpus: no .%s files in %s", c.Extension, root)
	}

	var refresh string
	if c.Refresh != "" {
		refresh = os.Getenv(c.Refresh)
		if !doublestar.ValidatePattern(refresh) {
			t.Fatalf("corpus: invalid glob in %s: %s", c.Refresh, refresh)
		}
	}
	if refresh != "" {
		t.Logf("corpus: refreshing %s", refresh)
		t.Fail()
	}

	for _, path := range tests {
		name, _ := filepath.Rel(testDir, path)
		name = filepath.ToSlash(name)
		t.Run(name, func(t *testing.T) {
			content, e := os.ReadFile(path)
			if e != nil {
				t.Fatalf("corpus: cannot read %s: %v", path, e)
			}

			results := c.Test(t, name, string(content))
			doRefresh, _ := doublestar.Match(refresh, name)
			for i, output := range c.Outputs {
				outPath := fmt.Sprint(path, ".", output.Extension)
				if doRefresh {
					writeOutput(t, outPath, results[i])
					continue
				}

				want, e := os.ReadFile(outPath)
				if e != nil && !errors.Is(e, os.ErrNotExist) {
					t.Errorf("corpus: cannot read %s: %v", outPath, e)
					continue
				}
				cmp := output.Compare
				if cmp == nil {
					cmp = Diff
				}
				if diff := cmp(results[i], string(want)); diff != "" {
					t.Errorf("output mismatch for %s:\n%s", outPath, diff)
				}
			}
		})
	}
}

func writeOutput(t *testing.T, path, content string) {
	var e error
	if content == "" {
		e = os.Remove(path)
		if errors.Is(e, os.ErrNotExist) {
			e = nil
		}
	} else {
		e = os.WriteFile(path, []byte(content), 0o644)
	}
	if e != nil {
		t.Errorf("corpus: cannot update %s: %v", path, e)
	}
}

// Diff is the default Compare, it returns unified diff.
func Diff(got, want string) string {
	if got == want {
		return ""
	}

	diff, e := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if e != nil {
		return e.Error()
	}
	return diff
}

func callerDir(skip int) string {
	_, file, _, ok := runtime.Caller(skip + 2)
	if !ok {
		panic("corpus: cannot determine test file directory")
	}
	return filepath.Dir(file)
}
