package scanner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/golobby/cast"

	"github.com/specscribe/core/pkg/domain"
)

// DirectivePrefix marks a comment line as a specification directive.
const DirectivePrefix = "//spec:"

// Directive verbs. Step verbs mirror the five Gherkin keywords.
const (
	verbFeature   = "feature"
	verbNarrative = "narrative"
	verbScenario  = "scenario"
	verbGiven     = "given"
	verbWhen      = "when"
	verbThen      = "then"
	verbAnd       = "and"
	verbBut       = "but"
)

var stepKeywords = map[string]domain.Keyword{
	verbGiven: domain.KeywordGiven,
	verbWhen:  domain.KeywordWhen,
	verbThen:  domain.KeywordThen,
	verbAnd:   domain.KeywordAnd,
	verbBut:   domain.KeywordBut,
}

// fileParser turns the directive comments of one file into raw records.
//
// Directives bind by position: a narrative line appends to the most recent
// feature, a scenario binds to the most recent feature, a step binds to the
// most recent scenario. Records keep their file-local sequence number in Seq;
// the scanner rebases it into the run-wide discovery order afterwards.
type fileParser struct {
	path     string
	records  domain.RecordSet
	warnings []domain.Warning
	seq      int

	feature         string
	featureIdx      int
	scenario        string
	scenarioFeature string
}

func newFileParser(path string) *fileParser {
	return &fileParser{path: path, featureIdx: -1}
}

func (p *fileParser) next() int {
	seq := p.seq
	p.seq++
	return seq
}

func (p *fileParser) warnf(line int, format string, args ...any) {
	p.warnings = append(p.warnings, domain.Warning{
		Kind:    domain.WarnDiscovery,
		Path:    fmt.Sprintf("%s:%d", p.path, line),
		Message: fmt.Sprintf(format, args...),
	})
}

// consume handles one directive comment line.
func (p *fileParser) consume(text string, line int) {
	rest := strings.TrimPrefix(text, DirectivePrefix)
	verb := rest
	if i := strings.IndexByte(rest, ' '); i >= 0 {
		verb = rest[:i]
		rest = strings.TrimSpace(rest[i+1:])
	} else {
		rest = ""
	}

	loc := domain.Location{File: p.path, Line: line}

	switch verb {
	case verbFeature:
		p.consumeFeature(rest, line, loc)
	case verbNarrative:
		p.consumeNarrative(rest, line)
	case verbScenario:
		p.consumeScenario(rest, line, loc)
	default:
		if keyword, ok := stepKeywords[verb]; ok {
			p.consumeStep(keyword, rest, line, loc)
			return
		}
		p.warnf(line, "unknown directive %q; skipped", verb)
	}
}

func (p *fileParser) consumeFeature(name string, line int, loc domain.Location) {
	if name == "" {
		p.warnf(line, "feature directive is missing a name; skipped")
		return
	}
	p.records.Features = append(p.records.Features, domain.FeatureRecord{
		Name:     name,
		Seq:      p.next(),
		Origin:   domain.OriginStatic,
		Location: loc,
	})
	p.feature = name
	p.featureIdx = len(p.records.Features) - 1
}

func (p *fileParser) consumeNarrative(text string, line int) {
	if p.featureIdx < 0 {
		p.warnf(line, "narrative directive without a preceding feature; skipped")
		return
	}
	f := &p.records.Features[p.featureIdx]
	if f.Narrative == "" {
		f.Narrative = text
	} else {
		f.Narrative += "\n" + text
	}
}

func (p *fileParser) consumeScenario(title string, line int, loc domain.Location) {
	if title == "" {
		p.warnf(line, "scenario directive is missing a title; skipped")
		return
	}
	// A scenario before any feature stays in the record set with an empty
	// feature name; the builder drops it as an orphan.
	p.records.Scenarios = append(p.records.Scenarios, domain.ScenarioRecord{
		Feature:  p.feature,
		Title:    title,
		Seq:      p.next(),
		Origin:   domain.OriginStatic,
		Location: loc,
	})
	p.scenario = title
	p.scenarioFeature = p.feature
}

func (p *fileParser) consumeStep(keyword domain.Keyword, rest string, line int, loc domain.Location) {
	priority, template, args, err := parseStepDirective(rest)
	if err != nil {
		p.warnf(line, "malformed %s directive: %v; skipped", strings.ToLower(string(keyword)), err)
		return
	}
	p.records.Steps = append(p.records.Steps, domain.StepRecord{
		Feature:  p.scenarioFeature,
		Scenario: p.scenario,
		Keyword:  keyword,
		Template: template,
		Args:     args,
		Order:    priority,
		Seq:      p.next(),
		Origin:   domain.OriginStatic,
		Location: loc,
	})
}

// parseStepDirective decodes `<priority> "<template>" [args…]`. The template
// is a Go-quoted string; arguments are whitespace-separated scalar literals,
// quoted when they contain spaces.
func parseStepDirective(rest string) (priority int, template string, args []any, err error) {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return 0, "", nil, fmt.Errorf("missing priority and template")
	}

	prioTok := rest
	if i := strings.IndexByte(rest, ' '); i >= 0 {
		prioTok = rest[:i]
		rest = strings.TrimSpace(rest[i+1:])
	} else {
		rest = ""
	}
	priority, err = strconv.Atoi(prioTok)
	if err != nil {
		return 0, "", nil, fmt.Errorf("invalid priority %q", prioTok)
	}

	if rest == "" || rest[0] != '"' {
		return 0, "", nil, fmt.Errorf("missing quoted template")
	}
	quoted, err := strconv.QuotedPrefix(rest)
	if err != nil {
		return 0, "", nil, fmt.Errorf("unterminated template quote")
	}
	template, err = strconv.Unquote(quoted)
	if err != nil {
		return 0, "", nil, fmt.Errorf("invalid template quoting: %w", err)
	}
	rest = strings.TrimSpace(rest[len(quoted):])

	for rest != "" {
		var token string
		if rest[0] == '"' {
			quoted, qerr := strconv.QuotedPrefix(rest)
			if qerr != nil {
				return 0, "", nil, fmt.Errorf("unterminated argument quote")
			}
			unquoted, uerr := strconv.Unquote(quoted)
			if uerr != nil {
				return 0, "", nil, fmt.Errorf("invalid argument quoting: %w", uerr)
			}
			args = append(args, unquoted)
			rest = strings.TrimSpace(rest[len(quoted):])
			continue
		}
		if i := strings.IndexByte(rest, ' '); i >= 0 {
			token = rest[:i]
			rest = strings.TrimSpace(rest[i+1:])
		} else {
			token = rest
			rest = ""
		}
		args = append(args, castScalar(token))
	}

	return priority, template, args, nil
}

// castScalar converts an unquoted argument literal to its natural scalar
// type: int, then float64, then bool, falling back to the verbatim string.
func castScalar(token string) any {
	for _, t := range []string{"int", "float64", "bool"} {
		if v, err := cast.FromString(token, t); err == nil {
			return v
		}
	}
	return token
}
