package entity

import (
	"github.com/scholarbench/mentionbench/pkg/cluster"
	"github.com/scholarbench/mentionbench/pkg/normalize"
	"github.com/scholarbench/mentionbench/pkg/similarity"
)

// GoldViews is a gold (survey) name list collapsed the same three ways the
// candidate mentions are. Exact and Norm are key sets; Fuzzy keeps one
// representative fuzzy key per gold cluster, in cluster-creation order.
type GoldViews struct {
	ExactKeys map[string]struct{}
	NormKeys  map[string]struct{}
	FuzzyReps []string
}

// Total returns the gold cardinality under the given view, which is the
// recall denominator.
func (g *GoldViews) Total(v View) (total int) {
	switch v {
	case ViewExact:
		total = len(g.ExactKeys)
	case ViewNorm:
		total = len(g.NormKeys)
	case ViewFuzzy:
		total = len(g.FuzzyReps)
	}
	return total
}

// BuildGold collapses gold names into the three views using the same
// clusterer (and therefore the same threshold) as the candidate side.
func BuildGold(names []string, c cluster.Clusterer) (gold GoldViews) {
	gold.ExactKeys = map[string]struct{}{}
	gold.NormKeys = map[string]struct{}{}

	keyOrder := []string{}
	seen := map[string]struct{}{}
	for _, n := range names {
		if key := normalize.CanonicalExact(n); key != "" {
			gold.ExactKeys[key] = struct{}{}
		}
		if key := normalize.CanonicalNorm(n); key != "" {
			gold.NormKeys[key] = struct{}{}
		}
		if key := normalize.FuzzyKey(n); key != "" {
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				keyOrder = append(keyOrder, key)
			}
		}
	}

	items := make([]cluster.Item, len(keyOrder))
	for i, key := range keyOrder {
		items[i] = cluster.Item{ID: i, Key: key}
	}
	for _, cl := range c.Cluster(items) {
		gold.FuzzyReps = append(gold.FuzzyReps, cl.Rep)
	}

	return gold
}

// Matcher decides which entities hit the gold set.
type Matcher struct {
	Scorer    similarity.Scorer
	Threshold float64
}

// NewMatcher creates a matcher over the given scorer and fuzzy threshold.
func NewMatcher(scorer similarity.Scorer, threshold float64) (m *Matcher) {
	m = &Matcher{
		Scorer:    scorer,
		Threshold: threshold,
	}
	return m
}

// Hits returns the entities in view order that hit the gold set. Exact and
// Norm hit on key membership; Fuzzy hits when the entity's fuzzy key scores
// at or above the threshold against any gold cluster representative.
//
// Hits counts entities, not gold items: several entities may hit the same
// gold item, so the hit count (and the recall derived from it) is not capped
// by the gold cardinality.
func (m *Matcher) Hits(entities []Entity, v View, gold *GoldViews) (hits []Entity) {
	for _, e := range entities {
		if m.isHit(&e, v, gold) {
			hits = append(hits, e)
		}
	}
	return hits
}

func (m *Matcher) isHit(e *Entity, v View, gold *GoldViews) (hit bool) {
	switch v {
	case ViewExact:
		_, hit = gold.ExactKeys[e.Key]
	case ViewNorm:
		_, hit = gold.NormKeys[e.Key]
	case ViewFuzzy:
		for _, rep := range gold.FuzzyReps {
			if m.Scorer.Ratio(e.Key, rep) >= m.Threshold {
				hit = true
				break
			}
		}
	}
	return hit
}
