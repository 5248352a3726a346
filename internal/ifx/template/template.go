// Package template substitutes positional (?) and named (:name) placeholders
// in a SQL template with escaped literal values. Substitution is purely
// textual and happens before anything is sent to the driver, so a template
// error never causes partial side effects on the server.
package template

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ifxcli/ifxcli/internal/ifx/quote"
)

// Lookup resolves a named parameter that is absent from the explicit map.
// It is the bounded "ambient variable" convenience: the caller supplies a
// closure over whatever scope it wants searched.
type Lookup func(name string) (any, bool)

// Params carries the parameter source and quoting policy for one
// substitution. Positional and named parameters are mutually exclusive
// within one execution: supplying Named or Fallback selects the named
// protocol, otherwise the positional protocol is used.
type Params struct {
	Positional []any
	Named      map[string]any
	Fallback   Lookup

	HintsByPos  map[int]quote.TypeHint
	HintsByName map[string]quote.TypeHint
	ForceString bool
}

// ParameterCountError reports a mismatch between ? placeholders and supplied
// values. The original template is included for diagnostics.
type ParameterCountError struct {
	Template     string
	Placeholders int
	Values       int
}

func (e *ParameterCountError) Error() string {
	return fmt.Sprintf(
		"parameter count mismatch: %d placeholders, %d values in template %q",
		e.Placeholders, e.Values, e.Template,
	)
}

// MissingParameterError reports a named placeholder with no value in the
// explicit map and no fallback resolution.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing value for parameter :%s", e.Name)
}

// Substitute renders the template into a final, safe-to-execute SQL string.
func Substitute(tpl string, params Params) (string, error) {
	if params.Named != nil || params.Fallback != nil {
		return substituteNamed(tpl, params)
	}
	return substitutePositional(tpl, params)
}

func substitutePositional(tpl string, params Params) (string, error) {
	marks, err := scanPositional(tpl)
	if err != nil {
		return "", err
	}

	if len(marks) != len(params.Positional) {
		return "", &ParameterCountError{
			Template:     tpl,
			Placeholders: len(marks),
			Values:       len(params.Positional),
		}
	}

	sb := strings.Builder{}
	sb.Grow(len(tpl))
	last := 0

	for i, pos := range marks {
		sb.WriteString(tpl[last:pos])
		sb.WriteString(renderValue(params.Positional[i], hintAt(params.HintsByPos, i), params.ForceString))
		last = pos + 1
	}
	sb.WriteString(tpl[last:])

	return sb.String(), nil
}

func substituteNamed(tpl string, params Params) (string, error) {
	tokens, err := scanNamed(tpl)
	if err != nil {
		return "", err
	}

	sb := strings.Builder{}
	sb.Grow(len(tpl))
	last := 0

	for _, tok := range tokens {
		value, ok := params.Named[tok.name]
		if !ok && params.Fallback != nil {
			value, ok = params.Fallback(tok.name)
		}
		if !ok {
			return "", &MissingParameterError{Name: tok.name}
		}

		sb.WriteString(tpl[last:tok.start])
		sb.WriteString(renderValue(value, hintAt(params.HintsByName, tok.name), params.ForceString))
		last = tok.end
	}
	sb.WriteString(tpl[last:])

	return sb.String(), nil
}

// renderValue turns a parameter value into literal SQL text. A nil value
// renders as NULL; everything else is stringified and quoted per policy.
func renderValue(value any, hint *quote.TypeHint, forceString bool) string {
	if value == nil {
		return "NULL"
	}

	s := fmt.Sprint(value)
	if quote.ShouldQuote(s, hint, forceString) {
		return quote.Quote(s)
	}
	return s
}

func hintAt[K comparable](hints map[K]quote.TypeHint, key K) *quote.TypeHint {
	if hints == nil {
		return nil
	}
	if hint, ok := hints[key]; ok {
		return &hint
	}
	return nil
}

type token struct {
	name  string
	start int
	end   int
}

// scanPositional returns the byte offset of every ? placeholder, left to
// right, skipping quoted strings and line comments.
func scanPositional(tpl string) ([]int, error) {
	marks := []int{}
	i := 0
	for i < len(tpl) {
		r, w := utf8.DecodeRuneInString(tpl[i:])
		switch r {
		case '\'':
			j, err := skipSingleQuoted(tpl, i+w)
			if err != nil {
				return nil, err
			}
			i = j
			continue
		case '-':
			if strings.HasPrefix(tpl[i:], "--") {
				i = skipLineComment(tpl, i+2)
				continue
			}
		case '?':
			marks = append(marks, i)
		}
		i += w
	}
	return marks, nil
}

// scanNamed returns every :identifier occurrence, left to right, skipping
// quoted strings and line comments. The scanner consumes the whole
// identifier at each occurrence, so a name is never confused with a longer
// name sharing its prefix: the token boundary is the first non-identifier
// character or end of string.
func scanNamed(tpl string) ([]token, error) {
	tokens := []token{}
	i := 0
	for i < len(tpl) {
		r, w := utf8.DecodeRuneInString(tpl[i:])
		switch r {
		case '\'':
			j, err := skipSingleQuoted(tpl, i+w)
			if err != nil {
				return nil, err
			}
			i = j
			continue
		case '-':
			if strings.HasPrefix(tpl[i:], "--") {
				i = skipLineComment(tpl, i+2)
				continue
			}
		case ':':
			name, end := parseIdent(tpl, i+w)
			if name != "" {
				tokens = append(tokens, token{name: name, start: i, end: end})
				i = end
				continue
			}
		}
		i += w
	}
	return tokens, nil
}

// skipSingleQuoted advances past a single-quoted string, honoring the
// doubled-quote escape.
func skipSingleQuoted(s string, i int) (int, error) {
	for i < len(s) {
		r, w := utf8.DecodeRuneInString(s[i:])
		i += w
		if r == '\'' {
			if i < len(s) && s[i] == '\'' {
				i++
				continue
			}
			return i, nil
		}
	}
	return 0, fmt.Errorf("unterminated quoted string in template")
}

func skipLineComment(s string, i int) int {
	for i < len(s) {
		if s[i] == '\n' {
			return i + 1
		}
		i++
	}
	return i
}

// parseIdent consumes an identifier: a letter or underscore followed by
// letters, digits or underscores.
func parseIdent(s string, i int) (string, int) {
	start := i
	if i >= len(s) {
		return "", i
	}

	r, w := utf8.DecodeRuneInString(s[i:])
	if !(r == '_' || unicode.IsLetter(r)) {
		return "", i
	}
	i += w

	for i < len(s) {
		r, w := utf8.DecodeRuneInString(s[i:])
		if !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			break
		}
		i += w
	}
	return s[start:i], i
}
