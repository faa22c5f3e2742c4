package rules

import (
	"strings"

	"golang.org/x/text/cases"
)

// nameSet answers membership queries, optionally under Unicode case folding.
// It is immutable after construction and safe for concurrent use.
type nameSet struct {
	fold  bool
	items map[string]struct{}
}

func newNameSet(items []string, fold bool) nameSet {
	s := nameSet{fold: fold, items: make(map[string]struct{}, len(items))}
	for _, item := range items {
		s.items[s.key(item)] = struct{}{}
	}
	return s
}

// key folds s when case folding is on. A Caser is stateful, so each call
// builds its own.
func (s nameSet) key(v string) string {
	if !s.fold {
		return v
	}
	return cases.Fold().String(v)
}

func (s nameSet) has(v string) bool {
	_, ok := s.items[s.key(v)]
	return ok
}

// suffixOf returns the first suffix in suffixes that name ends with.
// The suffix must leave at least one rune of stem behind.
func suffixOf(name string, suffixes []string, fold bool) (string, bool) {
	subject := name
	if fold {
		subject = cases.Fold().String(name)
	}
	for _, suffix := range suffixes {
		candidate := suffix
		if fold {
			candidate = cases.Fold().String(suffix)
		}
		if len(subject) > len(candidate) && strings.HasSuffix(subject, candidate) {
			return suffix, true
		}
	}
	return "", false
}
