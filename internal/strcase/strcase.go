// Package strcase converts identifiers between the naming styles used in
// generated spec files.
package strcase

import (
	"strings"
	"unicode"
)

// Decamelize lower-cases s and separates camel humps with underscores:
// "heroDetail" becomes "hero_detail".
func Decamelize(s string) string {
	runes := []rune(s)

	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				b.WriteRune('_')
			}
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// Dasherize turns "heroDetail" or "hero_detail" into "hero-detail".
func Dasherize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || r == ' ' {
			return '-'
		}

		return r
	}, Decamelize(s))
}

// Camelize turns "hero-detail" into "heroDetail".
func Camelize(s string) string {
	var b strings.Builder

	upperNext := false
	for _, r := range s {
		if r == '-' || r == '_' || r == '.' || unicode.IsSpace(r) {
			upperNext = true
			continue
		}

		if upperNext {
			r = unicode.ToUpper(r)
			upperNext = false
		}

		b.WriteRune(r)
	}

	out := []rune(b.String())
	if len(out) > 0 && unicode.IsUpper(out[0]) {
		out[0] = unicode.ToLower(out[0])
	}

	return string(out)
}

// Classify turns "hero-detail" into "HeroDetail". Dotted segments are
// classified separately.
func Classify(s string) string {
	parts := strings.Split(s, ".")
	for i, part := range parts {
		parts[i] = capitalize(Camelize(part))
	}

	return strings.Join(parts, ".")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])

	return string(runes)
}
