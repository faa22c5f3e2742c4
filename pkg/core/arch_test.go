package core_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const modulePath = "github.com/leapstack-labs/pkglint"

// packageImports parses every non-test Go file in dir and returns
// file name -> imported paths.
func packageImports(t *testing.T, dir string) map[string][]string {
	t.Helper()

	fset := token.NewFileSet()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", dir, err)
	}

	result := make(map[string][]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".go") {
			continue
		}
		if strings.HasSuffix(entry.Name(), "_test.go") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			t.Errorf("Failed to parse %s: %v", path, err)
			continue
		}

		for _, imp := range f.Imports {
			result[path] = append(result[path], strings.Trim(imp.Path.Value, `"`))
		}
	}
	return result
}

// TestCoreImportsOnlyStdlib verifies pkg/core only imports the standard library.
func TestCoreImportsOnlyStdlib(t *testing.T) {
	for file, imports := range packageImports(t, ".") {
		for _, importPath := range imports {
			// stdlib paths have no dot in their first element
			first := strings.SplitN(importPath, "/", 2)[0]
			if strings.Contains(first, ".") {
				t.Errorf("%s imports forbidden package: %s", file, importPath)
			}
		}
	}
}

// TestLintDoesNotImportInternal verifies the public lint packages stay
// usable outside this module.
func TestLintDoesNotImportInternal(t *testing.T) {
	for _, dir := range []string{"../lint", "../lint/rules"} {
		for file, imports := range packageImports(t, dir) {
			for _, importPath := range imports {
				if strings.HasPrefix(importPath, modulePath+"/internal/") {
					t.Errorf("%s imports %s (pkg/lint must not depend on internal packages)", file, importPath)
				}
			}
		}
	}
}

// TestCoreDoesNotImportLint verifies the dependency arrow points from lint to core.
func TestCoreDoesNotImportLint(t *testing.T) {
	for file, imports := range packageImports(t, ".") {
		for _, importPath := range imports {
			if strings.HasPrefix(importPath, modulePath+"/") {
				t.Errorf("%s imports %s (core must not depend on other module packages)", file, importPath)
			}
		}
	}
}
