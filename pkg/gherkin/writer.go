// Package gherkin serializes resolved documents to the canonical
// behavior-specification text layout, one unit per feature.
package gherkin

import (
	"fmt"
	"strings"

	"github.com/specscribe/core/pkg/domain"
	"github.com/specscribe/core/pkg/render"
)

const stepIndent = "\t\t\t"

// Format serializes one feature to its canonical text layout:
//
//	Feature: <name>
//	<tab><narrative line>
//
//	Scenario: <title>
//	<tab><tab><tab><Keyword> <rendered text>
//
// A blank line separates the feature header from the first scenario and each
// scenario from the next.
func Format(f domain.Feature) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "Feature: %s\n", f.Name)
	if f.Narrative != "" {
		for _, line := range strings.Split(f.Narrative, "\n") {
			fmt.Fprintf(&b, "\t%s\n", line)
		}
	}

	for _, scenario := range f.Scenarios {
		b.WriteString("\n")
		fmt.Fprintf(&b, "Scenario: %s\n", scenario.Title)
		for _, step := range scenario.Steps {
			fmt.Fprintf(&b, "%s%s %s\n", stepIndent, step.Keyword, render.Step(step))
		}
	}

	return []byte(b.String())
}

// Sink receives one serialized text unit per feature, keyed by a sanitized,
// collision-free feature name.
type Sink interface {
	// WriteFeature delivers one feature's text unit. A failed write affects
	// only that feature.
	WriteFeature(name string, content []byte) error
}

// WriteDocument serializes every feature of the document to the sink.
//
// Feature names are sanitized for use as file names. When two features
// sanitize to the same name within one run, later features get a numeric
// suffix instead of silently overwriting earlier ones, and a sink warning
// reports the disambiguation. A sink failure for one feature does not stop
// the remaining features from writing.
func WriteDocument(doc domain.Document, sink Sink) []domain.Warning {
	var warnings []domain.Warning
	used := make(map[string]bool)

	for _, feature := range doc.Features {
		name := Sanitize(feature.Name)
		if used[name] {
			base := name
			for n := 2; ; n++ {
				name = fmt.Sprintf("%s_%d", base, n)
				if !used[name] {
					break
				}
			}
			warnings = append(warnings, domain.Warning{
				Kind:    domain.WarnSink,
				Message: fmt.Sprintf("feature %q collides with an earlier feature name; written as %q", feature.Name, name),
			})
		}
		used[name] = true

		if err := sink.WriteFeature(name, Format(feature)); err != nil {
			warnings = append(warnings, domain.Warning{
				Kind:    domain.WarnSink,
				Path:    name,
				Message: fmt.Sprintf("write feature %q: %v", feature.Name, err),
			})
		}
	}

	return warnings
}

// Sanitize maps a feature name to a safe file name stem: letters, digits,
// dot, dash, and underscore pass through, everything else becomes an
// underscore. An empty name becomes "feature".
func Sanitize(name string) string {
	if name == "" {
		return "feature"
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
