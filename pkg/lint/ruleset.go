package lint

import (
	"fmt"

	"github.com/leapstack-labs/pkglint/pkg/core"
)

// RuleSet is an ordered, immutable collection of rules with unique IDs.
// Build one with NewRuleSet and pass it explicitly to an Analyzer.
type RuleSet struct {
	rules []RuleDef
	index map[string]int // rule ID -> position in rules
}

// NewRuleSet validates defs and returns them as a RuleSet.
// Duplicate, empty or reserved IDs and missing checks yield a *ConfigurationError.
func NewRuleSet(defs ...RuleDef) (*RuleSet, error) {
	rs := &RuleSet{
		rules: make([]RuleDef, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	copy(rs.rules, defs)

	for i, def := range rs.rules {
		if err := checkDef(def); err != nil {
			return nil, err
		}
		if prev, ok := rs.index[def.ID]; ok {
			return nil, &ConfigurationError{
				RuleID: def.ID,
				Err:    fmt.Errorf("%w: defined at positions %d and %d", ErrDuplicateRuleID, prev, i),
			}
		}
		rs.index[def.ID] = i
	}
	return rs, nil
}

func checkDef(def RuleDef) error {
	switch {
	case def.ID == "":
		return &ConfigurationError{Err: ErrEmptyRuleID}
	case def.ID == StructuralRuleID:
		return &ConfigurationError{RuleID: def.ID, Err: ErrReservedRuleID}
	case def.Check == nil:
		return &ConfigurationError{RuleID: def.ID, Err: ErrNilCheck}
	}
	return nil
}

// validate re-checks the invariants NewRuleSet establishes. It guards against
// nil sets and sets assembled without NewRuleSet.
func (rs *RuleSet) validate() error {
	if rs == nil {
		return &ConfigurationError{Err: ErrNilRuleSet}
	}
	seen := make(map[string]struct{}, len(rs.rules))
	for _, def := range rs.rules {
		if err := checkDef(def); err != nil {
			return err
		}
		if _, dup := seen[def.ID]; dup {
			return &ConfigurationError{RuleID: def.ID, Err: ErrDuplicateRuleID}
		}
		seen[def.ID] = struct{}{}
	}
	return nil
}

// Len returns the number of rules in the set.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.rules)
}

// Rules returns the rules in definition order.
func (rs *RuleSet) Rules() []RuleDef {
	if rs == nil {
		return nil
	}
	out := make([]RuleDef, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// IDs returns rule IDs in definition order.
func (rs *RuleSet) IDs() []string {
	ids := make([]string, 0, rs.Len())
	for _, r := range rs.Rules() {
		ids = append(ids, r.ID)
	}
	return ids
}

// Get returns a rule by its ID.
func (rs *RuleSet) Get(id string) (RuleDef, bool) {
	if rs == nil {
		return RuleDef{}, false
	}
	i, ok := rs.index[id]
	if !ok {
		return RuleDef{}, false
	}
	return rs.rules[i], true
}

// GetByGroup returns all rules in a specific group, in definition order.
func (rs *RuleSet) GetByGroup(group string) []RuleDef {
	var out []RuleDef
	for _, r := range rs.Rules() {
		if r.Group == group {
			out = append(out, r)
		}
	}
	return out
}

// Infos returns metadata for every rule, in definition order.
func (rs *RuleSet) Infos() []core.RuleInfo {
	infos := make([]core.RuleInfo, 0, rs.Len())
	for _, r := range rs.Rules() {
		infos = append(infos, r.Info())
	}
	return infos
}
