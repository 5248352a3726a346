// Package quote turns scalar values into SQL literals. It is the single
// point of SQL-injection defense: every parameter substituted into a
// statement template goes through Quote or is proven to be a numeric
// literal first.
package quote

import (
	"regexp"
	"strings"

	"github.com/orsinium-labs/enum"
)

// TypeHint is an explicit per-parameter type declared on a statement. It
// overrides the value-shape auto-detection.
type TypeHint enum.Member[string]

var (
	HintString  = TypeHint{Value: "string"}
	HintNumeric = TypeHint{Value: "numeric"}

	// TypeHints enumerates every valid hint.
	TypeHints = enum.New(HintString, HintNumeric)
)

// numericLiteralRe matches a complete integer or floating-point SQL literal.
// Partial matches never count: "12abc" and " 42" are not numeric.
var numericLiteralRe = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// Quote escapes embedded single quotes by doubling them and wraps the value
// in single quotes. It is a pure function and is never applied twice.
func Quote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

// IsNumericLiteral reports whether the value is, in its entirety, a valid
// integer or floating-point literal.
func IsNumericLiteral(value string) bool {
	return numericLiteralRe.MatchString(value)
}

// ShouldQuote decides whether a value must be rendered as a quoted string
// literal:
//
//   - forceString always quotes;
//   - an explicit hint quotes unless the hint is numeric;
//   - otherwise the value is quoted unless it is a clean numeric literal.
//
// Note that without a hint a numeric-looking code such as "0001234" stays
// unquoted and the engine will strip its leading zeros. Callers that need to
// preserve such values must declare HintString; this is a documented
// limitation of the auto-detection path, not a bug.
func ShouldQuote(value string, hint *TypeHint, forceString bool) bool {
	if forceString {
		return true
	}
	if hint != nil {
		return *hint != HintNumeric
	}
	return !IsNumericLiteral(value)
}
