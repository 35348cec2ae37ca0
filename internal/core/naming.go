package core

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HeaderFromKey converts a camelCase data key to a report header.
//
//	"familyIncome" -> "Family Income"
//	"createdAt"    -> "Created At"
//
// Only the first rune of each word changes, so KeyFromHeader restores the key
// for tokens like "1stChildAge" or "family-income".
func HeaderFromKey(key string) string {
	// Casers are stateful and must not be shared across goroutines.
	upper := cases.Upper(language.Und)
	words := splitCamelCase(key)
	for i, w := range words {
		_, size := utf8.DecodeRuneInString(w)
		words[i] = upper.String(w[:size]) + w[size:]
	}
	return strings.Join(words, " ")
}

// KeyFromHeader converts a report header back to its camelCase data key.
//
//	"Family Income" -> "familyIncome"
//	"Organization Name" -> "organizationName"
func KeyFromHeader(header string) string {
	words := strings.Fields(header)
	var b strings.Builder
	b.Grow(len(header))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if i == 0 {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(unicode.ToUpper(r))
		}
		b.WriteString(w[size:])
	}
	return b.String()
}

// splitCamelCase splits s before every uppercase letter.
// Consecutive uppercase letters each start a new word.
func splitCamelCase(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > start && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	if start < len(s) {
		words = append(words, s[start:])
	}
	return words
}
