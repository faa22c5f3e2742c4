package scan

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/build"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/leapstack-labs/pkglint/pkg/lint"
)

// ErrNoModule is returned when the root directory has no usable go.mod.
var ErrNoModule = errors.New("no module declaration found")

// ModulePath reads the module path declared in dir/go.mod.
func ModulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod")) //nolint:gosec // G304: dir is chosen by the caller
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", dir, ErrNoModule)
		}
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	modPath := modfile.ModulePath(data)
	if modPath == "" {
		return "", fmt.Errorf("%s/go.mod: %w", dir, ErrNoModule)
	}
	return modPath, nil
}

// ParseDir walks the module rooted at opts.Dir and returns one unit per
// directory holding non-test Go files for the current build context, sorted
// by import path. Hidden directories, testdata, vendor, directories starting
// with "_" and nested modules are skipped.
func ParseDir(ctx context.Context, opts Options) ([]lint.Unit, error) {
	root, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root directory: %w", err)
	}
	modPath, err := ModulePath(root)
	if err != nil {
		return nil, err
	}
	logger := opts.logger()
	logger.Debug("parsing module", "root", root, "module", modPath)

	fset := token.NewFileSet()
	var units []lint.Unit

	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !d.IsDir() {
			return nil
		}
		if p != root {
			if skipDir(d.Name()) {
				return filepath.SkipDir
			}
			if _, statErr := os.Stat(filepath.Join(p, "go.mod")); statErr == nil {
				logger.Debug("skipping nested module", "dir", p)
				return filepath.SkipDir
			}
		}

		name, files, err := parsePackageDir(fset, p)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		importPath := modPath
		if rel != "." {
			importPath = path.Join(modPath, filepath.ToSlash(rel))
		}
		units = append(units, newUnit(name, importPath, p, files))
		logger.Debug("parsed package", "import_path", importPath, "files", len(files))
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, walkErr)
	}

	sort.Slice(units, func(i, j int) bool {
		return units[i].ImportPath() < units[j].ImportPath()
	})
	return units, nil
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
		name == "testdata" || name == "vendor"
}

// parsePackageDir parses the package clause and doc of every buildable
// non-test file in dir. Files disagreeing on the package name are an error.
func parsePackageDir(fset *token.FileSet, dir string) (string, []*ast.File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", nil, err
	}

	var (
		name  string
		first string
		files []*ast.File
	)
	for _, e := range entries {
		fileName := e.Name()
		if e.IsDir() || !strings.HasSuffix(fileName, ".go") || strings.HasSuffix(fileName, "_test.go") {
			continue
		}
		ok, err := build.Default.MatchFile(dir, fileName)
		if err != nil {
			return "", nil, err
		}
		if !ok {
			continue
		}

		f, err := parser.ParseFile(fset, filepath.Join(dir, fileName), nil, parser.PackageClauseOnly|parser.ParseComments)
		if err != nil {
			return "", nil, err
		}
		switch {
		case name == "":
			name, first = f.Name.Name, fileName
		case f.Name.Name != name:
			return "", nil, fmt.Errorf("%s: found packages %s (%s) and %s (%s)", dir, name, first, f.Name.Name, fileName)
		}
		files = append(files, f)
	}
	return name, files, nil
}
