// Package domain defines the core types for behavior specification documents.
package domain

// Keyword identifies the Gherkin keyword of a step.
type Keyword string

// Supported step keywords.
const (
	KeywordGiven Keyword = "Given"
	KeywordWhen  Keyword = "When"
	KeywordThen  Keyword = "Then"
	KeywordAnd   Keyword = "And"
	KeywordBut   Keyword = "But"
)

// Valid reports whether k is one of the five supported keywords.
func (k Keyword) Valid() bool {
	switch k {
	case KeywordGiven, KeywordWhen, KeywordThen, KeywordAnd, KeywordBut:
		return true
	}
	return false
}

// Continuation reports whether k is a textual continuation keyword.
// And/But render as continuation lines but do not start a new logical phase.
func (k Keyword) Continuation() bool {
	return k == KeywordAnd || k == KeywordBut
}
