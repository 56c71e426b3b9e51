package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"brassworks.dev/fieldsmith/internal/config"
	"brassworks.dev/fieldsmith/internal/field"
)

func boolp(b bool) *bool { return &b }

func mustRules(t *testing.T, s config.Skip) *Rules {
	t.Helper()
	rep := &config.Report{}
	r := BuildRules(s, rep)
	assert.False(t, rep.HasProblems())
	return r
}

func TestEvaluate_FieldRuleTriggers(t *testing.T) {
	rules := mustRules(t, config.Skip{
		Fields: []config.ToggleRule{{ID: "customfield_100"}},
	})

	skip, reason := rules.Evaluate(&field.Field{ID: "customfield_100"}, true)
	assert.True(t, skip)
	assert.Equal(t, SkipField, reason)
}

func TestEvaluate_DisabledRuleNeverTriggers(t *testing.T) {
	rules := mustRules(t, config.Skip{
		Fields: []config.ToggleRule{{ID: "customfield_100", Enabled: boolp(false)}},
	})

	skip, reason := rules.Evaluate(&field.Field{ID: "customfield_100"}, true)
	assert.False(t, skip)
	assert.Equal(t, SkipNone, reason)
}

// A disabled field-id rule is evaluated first but does not shield the field
// from a later type-pattern rule.
func TestEvaluate_DisabledFieldRuleDoesNotShieldPatternRule(t *testing.T) {
	rules := mustRules(t, config.Skip{
		Fields:       []config.ToggleRule{{ID: "customfield_100", Enabled: boolp(false)}},
		TypePatterns: []config.PatternRule{{Pattern: `^com\.example\.`}},
	})

	f := &field.Field{ID: "customfield_100", Type: "com.example.fields:select"}
	skip, reason := rules.Evaluate(f, true)
	assert.True(t, skip)
	assert.Equal(t, SkipPattern, reason)
}

func TestEvaluate_TypeRuleBeatsPatternRule(t *testing.T) {
	rules := mustRules(t, config.Skip{
		Types:        []config.ToggleRule{{ID: "com.example.fields:select"}},
		TypePatterns: []config.PatternRule{{Pattern: `.*`}},
	})

	f := &field.Field{ID: "customfield_1", Type: "com.example.fields:select"}
	skip, reason := rules.Evaluate(f, true)
	assert.True(t, skip)
	assert.Equal(t, SkipType, reason)
}

func TestEvaluate_DisabledPatternFallsThroughToNextMatch(t *testing.T) {
	rules := mustRules(t, config.Skip{
		TypePatterns: []config.PatternRule{
			{Pattern: `^com\.`, Enabled: boolp(false)},
			{Pattern: `select$`},
		},
	})

	f := &field.Field{ID: "customfield_1", Type: "com.example.fields:select"}
	skip, reason := rules.Evaluate(f, true)
	assert.True(t, skip)
	assert.Equal(t, SkipPattern, reason)
}

func TestEvaluate_UnboundFieldIsImplicitSkip(t *testing.T) {
	rules := mustRules(t, config.Skip{})

	skip, reason := rules.Evaluate(&field.Field{ID: "customfield_1"}, false)
	assert.True(t, skip)
	assert.Equal(t, SkipUnbound, reason)

	skip, reason = rules.Evaluate(&field.Field{ID: "customfield_1"}, true)
	assert.False(t, skip)
	assert.Equal(t, SkipNone, reason)
}

func TestBuildRules_BadPatternIsProblemAndRuleDropped(t *testing.T) {
	rep := &config.Report{}
	rules := BuildRules(config.Skip{
		TypePatterns: []config.PatternRule{
			{Pattern: `([`},
			{Pattern: `select$`},
		},
	}, rep)

	assert.True(t, rep.HasProblems())
	assert.ErrorIs(t, rep.Problems(), config.ErrConfiguration)

	// The valid pattern still applies.
	skip, reason := rules.Evaluate(&field.Field{Type: "x:select"}, true)
	assert.True(t, skip)
	assert.Equal(t, SkipPattern, reason)
}
