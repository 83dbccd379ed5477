// Package evidence classifies entity provenance by strength.
//
// Each entity gets exactly one category, evaluated in priority order:
// a persistent identifier (DOI/HANDLE/ARK) beats a trusted hostname, which
// beats any other link, which beats no evidence at all.
package evidence

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/scholarbench/mentionbench/pkg/entity"
)

// Category is an entity's strongest provenance class.
type Category string

// Categories in priority order.
const (
	CategoryPID         Category = "PID"
	CategoryTrustedHost Category = "TrustedHost"
	CategoryOtherLink   Category = "OtherLink"
	CategoryNone        Category = "None"
)

// Record is the evidence classification of a single entity.
type Record struct {
	Category      Category
	HasAny        bool
	HasDatasetURL bool
}

var (
	doiRe    = regexp.MustCompile(`(?i)\b10\.\d{4,9}/\S+`)
	handleRe = regexp.MustCompile(`(?i)\b(?:hdl\.)?handle\.net/\S+`)
	arkRe    = regexp.MustCompile(`(?i)\bark:/\S+`)
	schemeRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
)

// Classifier applies PID patterns and a trusted-host set to entity evidence.
// The host set is fixed at construction; classification never mutates it.
type Classifier struct {
	trusted map[string]struct{}
}

// NewClassifier creates a classifier over the given trusted hostnames.
// Entries are lowercased and trimmed; empty entries are ignored.
func NewClassifier(trustedHosts []string) (c *Classifier) {
	c = &Classifier{trusted: map[string]struct{}{}}
	for _, h := range trustedHosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			c.trusted[h] = struct{}{}
		}
	}
	return c
}

// Classify returns the evidence record for an entity.
func (c *Classifier) Classify(e *entity.Entity) (rec Record) {
	rec.HasAny = hasAny(e.Evidence)
	rec.HasDatasetURL = e.HasDatasetURL()

	switch {
	case HasPID(e.Evidence):
		rec.Category = CategoryPID
	case c.HasTrusted(e.Evidence):
		rec.Category = CategoryTrustedHost
	case rec.HasAny:
		rec.Category = CategoryOtherLink
	default:
		rec.Category = CategoryNone
	}

	return rec
}

// HasPID reports whether any link carries a DOI, HANDLE or ARK identifier.
func HasPID(links []string) (ok bool) {
	for _, l := range links {
		if l == "" {
			continue
		}
		if doiRe.MatchString(l) || handleRe.MatchString(l) || arkRe.MatchString(l) {
			ok = true
			return ok
		}
	}
	return ok
}

// HasTrusted reports whether any link carries a PID or resolves to a trusted
// hostname (exact match or dot-suffix, so api.zenodo.org matches zenodo.org).
func (c *Classifier) HasTrusted(links []string) (ok bool) {
	for _, l := range links {
		if l == "" {
			continue
		}
		if doiRe.MatchString(l) || handleRe.MatchString(l) || arkRe.MatchString(l) {
			ok = true
			return ok
		}
		h := Host(l)
		if h == "" {
			continue
		}
		if _, found := c.trusted[h]; found {
			ok = true
			return ok
		}
		for th := range c.trusted {
			if strings.HasSuffix(h, "."+th) {
				ok = true
				return ok
			}
		}
	}
	return ok
}

// Host extracts the lowercased hostname from a link, defaulting the scheme
// to https for bare hosts. Unparseable links yield "".
func Host(link string) (host string) {
	link = strings.TrimSpace(link)
	if link == "" {
		return host
	}
	if !schemeRe.MatchString(link) {
		link = "https://" + link
	}

	parsed, err := url.Parse(link)
	if err != nil {
		return host
	}

	host = strings.ToLower(parsed.Hostname())
	return host
}

func hasAny(links []string) (ok bool) {
	for _, l := range links {
		if strings.TrimSpace(l) != "" {
			ok = true
			return ok
		}
	}
	return ok
}
