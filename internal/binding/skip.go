package binding

import (
	"fmt"
	"regexp"

	"brassworks.dev/fieldsmith/internal/config"
	"brassworks.dev/fieldsmith/internal/field"
)

// SkipReason tells why generation for a field was suppressed.
type SkipReason string

const (
	// SkipNone means no suppression applies.
	SkipNone SkipReason = ""

	// SkipField means an exact field-id rule triggered.
	SkipField SkipReason = "field rule"

	// SkipType means an exact type-id rule triggered.
	SkipType SkipReason = "type rule"

	// SkipPattern means a type-id pattern rule triggered.
	SkipPattern SkipReason = "type pattern"

	// SkipUnbound means no template governs the field. This is a
	// configuration gap, not configuration intent.
	SkipUnbound SkipReason = "unbound"
)

type toggleRule struct {
	id      string
	enabled bool
}

type patternRule struct {
	raw     string
	re      *regexp.Regexp
	enabled bool
}

// Rules is the compiled set of skip rules. Built once from configuration.
type Rules struct {
	fields   []toggleRule
	types    []toggleRule
	patterns []patternRule
}

// BuildRules compiles the configured skip rules. A pattern that does not
// compile is a configuration problem; the rule is dropped and the remaining
// rules still apply.
func BuildRules(s config.Skip, rep *config.Report) *Rules {
	r := &Rules{}
	for _, t := range s.Fields {
		r.fields = append(r.fields, toggleRule{id: t.ID, enabled: t.On()})
	}
	for _, t := range s.Types {
		r.types = append(r.types, toggleRule{id: t.ID, enabled: t.On()})
	}
	for _, p := range s.TypePatterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			rep.Problemf("skip pattern %q does not compile: %v", p.Pattern, err)
			continue
		}
		r.patterns = append(r.patterns, patternRule{raw: p.Pattern, re: re, enabled: p.On()})
	}
	return r
}

// Evaluate decides whether generation for f must be suppressed.
//
// Rules are evaluated in order: exact field-id rule, exact type-id rule,
// type-id pattern rules in declaration order. A disabled rule is evaluated
// but never triggers, and never shields the field from later rules. If no
// rule triggers and the field has no template binding, the result is an
// implicit skip with reason SkipUnbound.
func (r *Rules) Evaluate(f *field.Field, bound bool) (bool, SkipReason) {
	for _, rule := range r.fields {
		if rule.id == f.ID && rule.enabled {
			return true, SkipField
		}
	}
	for _, rule := range r.types {
		if rule.id == f.Type && rule.enabled {
			return true, SkipType
		}
	}
	for _, rule := range r.patterns {
		if rule.re.MatchString(f.Type) && rule.enabled {
			return true, SkipPattern
		}
	}
	if !bound {
		return true, SkipUnbound
	}
	return false, SkipNone
}

func (r *Rules) String() string {
	return fmt.Sprintf("rules{fields:%d types:%d patterns:%d}",
		len(r.fields), len(r.types), len(r.patterns))
}
