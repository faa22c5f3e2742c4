//go:build governance

package core_test

import (
	"go/types"
	"maps"
	"slices"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// loadModule type-checks every package of the module.
func loadModule(t *testing.T) []*packages.Package {
	t.Helper()
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedImports | packages.NeedTypes |
			packages.NeedTypesInfo | packages.NeedDeps,
	}
	pkgs, err := packages.Load(cfg, modulePath+"/...")
	if err != nil {
		t.Fatalf("load %s: %v", modulePath, err)
	}
	return pkgs
}

// TestGovernance_CoreTypesAreShared fails when an exported type or function of
// pkg/core has a single consumer package. Such a declaration belongs in that
// package. Constants are counted through their type.
func TestGovernance_CoreTypesAreShared(t *testing.T) {
	pkgs := loadModule(t)

	shared := make(map[types.Object]string)
	for _, p := range pkgs {
		if p.PkgPath != modulePath+"/pkg/core" {
			continue
		}
		scope := p.Types.Scope()
		for _, name := range scope.Names() {
			obj := scope.Lookup(name)
			switch obj.(type) {
			case *types.TypeName, *types.Func:
				if obj.Exported() {
					shared[obj] = name
				}
			}
		}
	}
	if len(shared) == 0 {
		t.Fatal("pkg/core exports no types")
	}

	consumers := make(map[string]map[string]bool)
	for _, p := range pkgs {
		if strings.HasSuffix(p.PkgPath, "/pkg/core") || p.TypesInfo == nil {
			continue
		}
		for _, obj := range p.TypesInfo.Uses {
			if name, ok := shared[obj]; ok {
				if consumers[name] == nil {
					consumers[name] = make(map[string]bool)
				}
				consumers[name][strings.TrimPrefix(p.PkgPath, modulePath+"/")] = true
			}
		}
	}

	for _, name := range slices.Sorted(maps.Values(shared)) {
		// LintConfig.Rules values are reached through LintConfig.
		if name == "RuleOptions" {
			continue
		}
		users := slices.Sorted(maps.Keys(consumers[name]))
		switch len(users) {
		case 0:
			t.Logf("core.%s has no consumers", name)
		case 1:
			t.Errorf("core.%s is only used by %s; move it there", name, users[0])
		}
	}
}

// TestGovernance_LintHasNoCLIDependencies walks the transitive imports of the
// public lint packages and rejects anything from internal/ or the CLI stack.
func TestGovernance_LintHasNoCLIDependencies(t *testing.T) {
	forbidden := []string{
		modulePath + "/internal/",
		"github.com/spf13/",
		"github.com/knadh/koanf",
		"github.com/charmbracelet/",
		"modernc.org/sqlite",
	}

	for _, p := range loadModule(t) {
		if !strings.HasPrefix(p.PkgPath, modulePath+"/pkg/") {
			continue
		}
		seen := make(map[string]bool)
		var walk func(*packages.Package)
		walk = func(dep *packages.Package) {
			for path, imp := range dep.Imports {
				if seen[path] {
					continue
				}
				seen[path] = true
				for _, prefix := range forbidden {
					if strings.HasPrefix(path, prefix) {
						t.Errorf("%s depends on %s", p.PkgPath, path)
					}
				}
				walk(imp)
			}
		}
		walk(p)
	}
}
