// Package render substitutes positional placeholders in step templates.
//
// Rendering is pure: the same step record always yields byte-identical text,
// and no external state is consulted. The substitution policy is lenient so
// one malformed step cannot corrupt a whole document: a placeholder whose
// index is out of range renders as the empty string, and surplus arguments
// are ignored.
package render

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/specscribe/core/pkg/domain"
)

var placeholderRe = regexp.MustCompile(`\{(\d+)\}`)

// Render replaces each zero-indexed {N} placeholder in template with the
// formatted argument at position N. Out-of-range indexes render empty.
func Render(template string, args []any) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(match string) string {
		idx, err := strconv.Atoi(match[1 : len(match)-1])
		if err != nil || idx < 0 || idx >= len(args) {
			return ""
		}
		return Format(args[idx])
	})
}

// Step renders a resolved step's display text, without its keyword.
func Step(s domain.Step) string {
	return Render(s.Template, s.Args)
}

// Format returns the natural textual representation of a scalar argument:
// integers in decimal, floats in their shortest round-trip form, booleans as
// true/false, strings verbatim.
func Format(arg any) string {
	switch v := arg.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
