package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specscribe/core/pkg/domain"
)

func TestParseStepDirective(t *testing.T) {
	tests := []struct {
		name         string
		rest         string
		wantPriority int
		wantTemplate string
		wantArgs     []any
		wantErr      string
	}{
		{
			name:         "template with one int arg",
			rest:         `10 "I have entered {0} into the calculator" 1`,
			wantPriority: 10,
			wantTemplate: "I have entered {0} into the calculator",
			wantArgs:     []any{1},
		},
		{
			name:         "template without args",
			rest:         `30 "I press add"`,
			wantPriority: 30,
			wantTemplate: "I press add",
		},
		{
			name:         "mixed scalar args",
			rest:         `5 "{0} {1} {2} {3}" 42 3.5 true pending`,
			wantPriority: 5,
			wantTemplate: "{0} {1} {2} {3}",
			wantArgs:     []any{42, 3.5, true, "pending"},
		},
		{
			name:         "quoted string arg with spaces",
			rest:         `1 "user {0} logs in" "Ada Lovelace"`,
			wantPriority: 1,
			wantTemplate: "user {0} logs in",
			wantArgs:     []any{"Ada Lovelace"},
		},
		{
			name:         "negative priority",
			rest:         `-3 "early step"`,
			wantPriority: -3,
			wantTemplate: "early step",
		},
		{
			name:    "empty directive",
			rest:    ``,
			wantErr: "missing priority",
		},
		{
			name:    "non-integer priority",
			rest:    `first "a template"`,
			wantErr: "invalid priority",
		},
		{
			name:    "missing template",
			rest:    `10`,
			wantErr: "missing quoted template",
		},
		{
			name:    "unquoted template",
			rest:    `10 I press add`,
			wantErr: "missing quoted template",
		},
		{
			name:    "unterminated template",
			rest:    `10 "I press add`,
			wantErr: "unterminated template quote",
		},
		{
			name:    "unterminated argument",
			rest:    `10 "ok" "broken`,
			wantErr: "unterminated argument quote",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			priority, template, args, err := parseStepDirective(tt.rest)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantPriority, priority)
			assert.Equal(t, tt.wantTemplate, template)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestCastScalar(t *testing.T) {
	assert.Equal(t, 7, castScalar("7"))
	assert.Equal(t, -12, castScalar("-12"))
	assert.Equal(t, 2.5, castScalar("2.5"))
	assert.Equal(t, true, castScalar("true"))
	assert.Equal(t, false, castScalar("false"))
	assert.Equal(t, "add", castScalar("add"))
}

func TestFileParserBindsByPosition(t *testing.T) {
	p := newFileParser("calc_test.go")

	p.consume(`//spec:feature Calculator`, 1)
	p.consume(`//spec:narrative In order to avoid silly mistakes`, 2)
	p.consume(`//spec:narrative As a math idiot`, 3)
	p.consume(`//spec:scenario Add two numbers`, 5)
	p.consume(`//spec:given 10 "I have entered {0} into the calculator" 1`, 6)
	p.consume(`//spec:then 40 "the result should be {0}" 3`, 7)

	assert.Empty(t, p.warnings)
	require.Len(t, p.records.Features, 1)
	assert.Equal(t, "Calculator", p.records.Features[0].Name)
	assert.Equal(t, "In order to avoid silly mistakes\nAs a math idiot", p.records.Features[0].Narrative)

	require.Len(t, p.records.Scenarios, 1)
	assert.Equal(t, "Calculator", p.records.Scenarios[0].Feature)
	assert.Equal(t, "Add two numbers", p.records.Scenarios[0].Title)

	require.Len(t, p.records.Steps, 2)
	given := p.records.Steps[0]
	assert.Equal(t, domain.KeywordGiven, given.Keyword)
	assert.Equal(t, "Add two numbers", given.Scenario)
	assert.Equal(t, 10, given.Order)
	assert.Equal(t, []any{1}, given.Args)
	assert.Equal(t, domain.OriginStatic, given.Origin)
	assert.Equal(t, domain.Location{File: "calc_test.go", Line: 6}, given.Location)

	// Sequence numbers follow source position across record kinds.
	assert.Equal(t, 0, p.records.Features[0].Seq)
	assert.Equal(t, 1, p.records.Scenarios[0].Seq)
	assert.Equal(t, 2, p.records.Steps[0].Seq)
	assert.Equal(t, 3, p.records.Steps[1].Seq)
}

func TestFileParserMalformedDirectives(t *testing.T) {
	p := newFileParser("bad_test.go")

	p.consume(`//spec:feature`, 1)
	p.consume(`//spec:narrative homeless narrative`, 2)
	p.consume(`//spec:scenario`, 3)
	p.consume(`//spec:given nope "a template"`, 4)
	p.consume(`//spec:banana split`, 5)

	assert.True(t, p.records.Empty(), "malformed directives must not produce records")
	require.Len(t, p.warnings, 5)
	for _, w := range p.warnings {
		assert.Equal(t, domain.WarnDiscovery, w.Kind)
		assert.Contains(t, w.Path, "bad_test.go:")
	}
}

func TestFileParserOrphanStepAndScenario(t *testing.T) {
	p := newFileParser("orphan_test.go")

	// A step before any scenario, and a scenario before any feature, stay
	// in the record set with empty parents; the builder reports them.
	p.consume(`//spec:given 1 "floating step"`, 1)
	p.consume(`//spec:scenario Parentless`, 2)

	assert.Empty(t, p.warnings)
	require.Len(t, p.records.Steps, 1)
	assert.Equal(t, "", p.records.Steps[0].Scenario)
	require.Len(t, p.records.Scenarios, 1)
	assert.Equal(t, "", p.records.Scenarios[0].Feature)
}

func TestFileParserFeatureWithoutNarrative(t *testing.T) {
	p := newFileParser("bare_test.go")
	p.consume(`//spec:feature Bare`, 1)

	require.Len(t, p.records.Features, 1)
	assert.Equal(t, "", p.records.Features[0].Narrative)
}

func TestFileParserSecondFeatureRebinds(t *testing.T) {
	p := newFileParser("two_test.go")

	p.consume(`//spec:feature First`, 1)
	p.consume(`//spec:scenario under first`, 2)
	p.consume(`//spec:feature Second`, 3)
	p.consume(`//spec:narrative second narrative`, 4)
	p.consume(`//spec:scenario under second`, 5)

	require.Len(t, p.records.Features, 2)
	assert.Equal(t, "", p.records.Features[0].Narrative)
	assert.Equal(t, "second narrative", p.records.Features[1].Narrative)
	require.Len(t, p.records.Scenarios, 2)
	assert.Equal(t, "First", p.records.Scenarios[0].Feature)
	assert.Equal(t, "Second", p.records.Scenarios[1].Feature)
}
