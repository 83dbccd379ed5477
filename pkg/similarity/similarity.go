// Package similarity provides symmetric string-similarity scoring in [0,1].
package similarity

import (
	"github.com/antzucaro/matchr"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
)

// Scorer computes a symmetric, deterministic similarity between two strings.
// Scores are in [0,1] with 1 meaning identical. Scorers are not required to
// be transitive: a and c may each score above a threshold against b without
// scoring above it against each other.
type Scorer interface {
	Ratio(a, b string) float64
}

// Sequence scores with the longest-matching-block ratio of a sequence
// matcher, computed over runes. This is the default scorer.
type Sequence struct{}

// Ratio returns 2*M/(len(a)+len(b)) where M is the total size of the
// longest matching blocks between a and b.
func (s Sequence) Ratio(a, b string) (ratio float64) {
	if a == "" && b == "" {
		ratio = 1.0
		return ratio
	}

	m := difflib.NewMatcher(splitRunes(a), splitRunes(b))
	ratio = m.Ratio()

	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return ratio
}

// splitRunes turns a string into one element per rune so the matcher
// compares characters, not lines.
func splitRunes(s string) (parts []string) {
	parts = make([]string, 0, len(s))
	for _, r := range s {
		parts = append(parts, string(r))
	}
	return parts
}

// JaroWinkler scores with the Jaro-Winkler metric, which weights common
// prefixes. Offered as an alternative for corpora dominated by acronyms.
type JaroWinkler struct{}

// Ratio returns the Jaro-Winkler similarity of a and b.
func (j JaroWinkler) Ratio(a, b string) (ratio float64) {
	if a == "" && b == "" {
		ratio = 1.0
		return ratio
	}

	ratio = matchr.JaroWinkler(a, b, false)

	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return ratio
}

// New returns the scorer registered under name. Valid names are "ratio"
// (default sequence matcher) and "jarowinkler".
func New(name string) (scorer Scorer, err error) {
	switch name {
	case "", "ratio":
		scorer = Sequence{}
	case "jarowinkler":
		scorer = JaroWinkler{}
	default:
		err = errors.Errorf("unknown similarity scorer: %s (valid: ratio, jarowinkler)", name)
	}

	return scorer, err
}
