// Package normalize produces the canonical match keys for dataset names.
//
// Three keys of increasing tolerance are derived from each raw name:
// CanonicalExact (whitespace only), CanonicalNorm (case and light
// punctuation) and FuzzyKey (alphanumeric skeleton). All three are pure and
// idempotent; an empty result means the name carries no usable content and
// the caller must drop it from entity construction.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// lightPunctuation is stripped by CanonicalNorm. Parentheses and hyphens are
// kept: they routinely disambiguate dataset names (e.g. "CIFAR-10").
const lightPunctuation = "\"'`“”‘’.,;:"

// CanonicalExact trims the name and collapses internal whitespace runs to a
// single space. Case is preserved.
func CanonicalExact(name string) (key string) {
	key = strings.Join(strings.Fields(name), " ")
	return key
}

// CanonicalNorm lowercases the name, folds Unicode compatibility forms
// (non-breaking spaces, full-width characters), strips light punctuation and
// collapses whitespace.
func CanonicalNorm(name string) (key string) {
	key = norm.NFKC.String(name)
	key = strings.ToLower(key)
	key = strings.Map(func(r rune) rune {
		if strings.ContainsRune(lightPunctuation, r) {
			return -1
		}
		return r
	}, key)
	key = strings.Join(strings.Fields(key), " ")
	return key
}

// FuzzyKey reduces the name to its normalized form, drops every character
// outside [a-z0-9 ] and collapses whitespace again. The result is the key
// fuzzy clustering and fuzzy gold matching operate on.
func FuzzyKey(name string) (key string) {
	key = CanonicalNorm(name)
	key = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == ' ':
			return r
		}
		return -1
	}, key)
	key = strings.Join(strings.Fields(key), " ")
	return key
}
