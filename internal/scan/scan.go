// Package scan turns Go packages on disk into lint units.
//
// Two strategies are offered. Packages asks the go command through
// golang.org/x/tools/go/packages and so honors build tags, workspaces and
// replace directives. ParseDir needs no toolchain: it walks a module
// directory and reads only package clauses with go/parser.
package scan

import (
	"go/ast"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/pkglint/pkg/lint"
)

// Options configures both scanning strategies.
type Options struct {
	// Dir is the working directory for pattern resolution or the module root.
	Dir string
	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// hasLeadingDoc reports whether any file carries a non-empty package comment.
// Directive lines such as //go:build do not count.
func hasLeadingDoc(files []*ast.File) bool {
	for _, f := range files {
		if f.Doc != nil && strings.TrimSpace(f.Doc.Text()) != "" {
			return true
		}
	}
	return false
}

func newUnit(name, importPath, dir string, files []*ast.File) lint.Unit {
	return lint.Unit{
		Name:               name,
		IsEntryPoint:       name == "main",
		HasLeadingDoc:      hasLeadingDoc(files),
		ImportPathSegments: strings.Split(importPath, "/"),
		Dir:                dir,
	}
}
