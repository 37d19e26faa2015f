package signature

import (
	"regexp"
	"strings"
)

const (
	// Unresolvable marks a type or signature that cannot be expressed canonically.
	// Anything containing it is rejected by the Filter.
	Unresolvable = "IGNOREME"

	// Unit stands in for an empty parameter list or an absent return type.
	Unit = "Unit"

	// TypeParameter replaces the top type in canonical output.
	TypeParameter = "T"

	nullableMarker = "?"
	wildcardMarker = "*"
	arrow          = "->"
)

var topType = regexp.MustCompile(`\bAny\b`)

// NormalizeType rewrites a raw type expression into canonical form. A trailing
// nullable marker becomes an Optional<...> wrapper before any other rewrite runs,
// so the later substitutions never see it.
func NormalizeType(raw string) string {
	result := raw
	if strings.HasSuffix(result, nullableMarker) {
		result = "Optional<" + strings.TrimSuffix(result, nullableMarker) + ">"
	}

	result = strings.ReplaceAll(result, wildcardMarker, Unresolvable)
	result = strings.ReplaceAll(result, nullableMarker, Unresolvable)
	result = topType.ReplaceAllString(result, TypeParameter)

	if strings.Contains(result, arrow) && !enclosed(result) {
		return "(" + result + ")"
	}
	return result
}

// enclosed reports whether s is wrapped in a single parenthesis pair whose opening
// paren closes on the last byte.
func enclosed(s string) bool {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i == len(s)-1
			}
		}
	}
	return false
}
