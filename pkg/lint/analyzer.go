package lint

import (
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/pkglint/pkg/core"
)

// Analyzer applies every enabled rule of a RuleSet to every unit.
// A unit failing one rule is still checked against all others.
type Analyzer struct {
	rules       *RuleSet
	config      *Config
	logger      *slog.Logger
	concurrency int
}

// NewAnalyzer creates an analyzer over rules with optional configuration.
func NewAnalyzer(rules *RuleSet, config *Config) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	return &Analyzer{
		rules:       rules,
		config:      config,
		logger:      slog.New(slog.DiscardHandler),
		concurrency: 1,
	}
}

// WithLogger sets the logger used for debug output.
func (a *Analyzer) WithLogger(logger *slog.Logger) *Analyzer {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// WithConcurrency sets how many units are checked in parallel.
// Values below 2 keep evaluation on the calling goroutine.
func (a *Analyzer) WithConcurrency(n int) *Analyzer {
	if n < 1 {
		n = 1
	}
	a.concurrency = n
	return a
}

// Evaluate checks units and returns the violations in Report order, sorted by
// unit name then rule ID. The order does not depend on concurrency.
//
// A *ConfigurationError is returned before any rule runs if the rule set is
// invalid. Malformed units never fail the call; each yields one violation
// with rule ID StructuralRuleID.
func (a *Analyzer) Evaluate(units []Unit) ([]Violation, error) {
	if err := a.rules.validate(); err != nil {
		return nil, err
	}

	a.logger.Debug("evaluating units",
		slog.Int("units", len(units)),
		slog.Int("rules", a.rules.Len()),
		slog.Int("concurrency", a.concurrency))

	perUnit := make([][]Violation, len(units))
	if a.concurrency > 1 && len(units) > 1 {
		var g errgroup.Group
		g.SetLimit(a.concurrency)
		for i := range units {
			g.Go(func() error {
				perUnit[i] = a.evaluateUnit(units[i])
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range units {
			perUnit[i] = a.evaluateUnit(units[i])
		}
	}

	var total int
	for _, vs := range perUnit {
		total += len(vs)
	}
	violations := make([]Violation, 0, total)
	for _, vs := range perUnit {
		violations = append(violations, vs...)
	}

	a.logger.Debug("evaluation complete", slog.Int("violations", len(violations)))
	return Report(violations), nil
}

func (a *Analyzer) evaluateUnit(unit Unit) []Violation {
	if err := unit.Validate(); err != nil {
		var malformed *MalformedInputError
		if !errors.As(err, &malformed) {
			malformed = &MalformedInputError{UnitName: unit.Name, Problems: []string{err.Error()}}
		}
		a.logger.Debug("malformed unit", slog.String("unit", unit.Name), slog.Any("problems", malformed.Problems))
		return []Violation{{
			RuleID:     StructuralRuleID,
			UnitName:   unit.Name,
			Message:    malformed.Error(),
			Severity:   core.SeverityError,
			ImportPath: unit.ImportPath(),
		}}
	}

	var violations []Violation
	for _, rule := range a.rules.rules {
		if a.config.IsDisabled(rule.ID) {
			continue
		}

		v := rule.Check(unit)
		if v == nil {
			continue
		}

		violations = append(violations, Violation{
			RuleID:     rule.ID,
			UnitName:   unit.Name,
			Message:    v.Message,
			Severity:   a.config.GetSeverity(rule.ID, rule.Severity),
			ImportPath: unit.ImportPath(),
		})
	}
	return violations
}

// Evaluate checks units against rules with the default configuration.
func Evaluate(units []Unit, rules *RuleSet) ([]Violation, error) {
	return NewAnalyzer(rules, nil).Evaluate(units)
}
