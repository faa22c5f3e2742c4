package scan

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"golang.org/x/tools/go/packages"

	"github.com/leapstack-labs/pkglint/pkg/lint"
)

const loadMode = packages.NeedName | packages.NeedFiles |
	packages.NeedCompiledGoFiles | packages.NeedSyntax

// Packages loads patterns (default "./...") with the go command and returns
// one unit per package, sorted by import path. Test packages are excluded.
func Packages(ctx context.Context, opts Options, patterns ...string) ([]lint.Unit, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	logger := opts.logger()

	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     opts.Dir,
		Tests:   false,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var loadErrs []error
	units := make([]lint.Unit, 0, len(pkgs))
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			for _, e := range pkg.Errors {
				loadErrs = append(loadErrs, fmt.Errorf("%s: %s", pkg.PkgPath, e.Msg))
			}
			continue
		}
		if pkg.Name == "" || pkg.PkgPath == "" {
			continue
		}

		var dir string
		if len(pkg.GoFiles) > 0 {
			dir = filepath.Dir(pkg.GoFiles[0])
		}
		units = append(units, newUnit(pkg.Name, pkg.PkgPath, dir, pkg.Syntax))
		logger.Debug("loaded package", "import_path", pkg.PkgPath, "files", len(pkg.Syntax))
	}
	if len(loadErrs) > 0 {
		return nil, fmt.Errorf("failed to load packages: %w", errors.Join(loadErrs...))
	}

	sort.Slice(units, func(i, j int) bool {
		return units[i].ImportPath() < units[j].ImportPath()
	})
	return units, nil
}
