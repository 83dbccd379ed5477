package entity

import (
	"github.com/scholarbench/mentionbench/pkg/cluster"
	"github.com/scholarbench/mentionbench/pkg/normalize"
)

// Views holds the three deduplicated entity views built from one mention
// list, plus the mention diagnostics the views were built from.
type Views struct {
	Exact []Entity
	Norm  []Entity
	Fuzzy []Entity

	// Mentions counts named mentions; Unnamed counts mentions dropped
	// because their name was empty or whitespace.
	Mentions int
	Unnamed  int
}

// Resolver builds entity views. The clusterer only serves the fuzzy view;
// exact and norm are plain key grouping.
type Resolver struct {
	Clusterer cluster.Clusterer
}

// NewResolver creates a resolver over the given fuzzy clusterer.
func NewResolver(c cluster.Clusterer) (r *Resolver) {
	r = &Resolver{Clusterer: c}
	return r
}

// Resolve builds all three views from mentions, preserving input order.
// Mentions whose exact key is empty are excluded from every view and
// reported in Unnamed.
func (r *Resolver) Resolve(mentions []Mention) (views Views) {
	named := make([]Mention, 0, len(mentions))
	for _, m := range mentions {
		if normalize.CanonicalExact(m.Name) == "" {
			views.Unnamed++
			continue
		}
		named = append(named, m)
	}
	views.Mentions = len(named)

	views.Exact = groupByKey(named, normalize.CanonicalExact)
	views.Norm = groupByKey(named, normalize.CanonicalNorm)
	views.Fuzzy = r.clusterFuzzy(named)

	return views
}

// groupByKey hash-groups mentions on keyFn, keeping first-seen key order.
// Empty keys are dropped.
func groupByKey(mentions []Mention, keyFn func(string) string) (entities []Entity) {
	index := map[string]int{}
	for _, m := range mentions {
		key := keyFn(m.Name)
		if key == "" {
			continue
		}

		i, ok := index[key]
		if !ok {
			i = len(entities)
			index[key] = i
			entities = append(entities, Entity{Repr: m.Name, Key: key})
		}
		appendMember(&entities[i], m)
	}

	return entities
}

// clusterFuzzy runs the clusterer over unique fuzzy keys in first-seen order
// and expands each key cluster back to its mentions. Clustering unique keys
// keeps the pairwise scan proportional to distinct names, and identical keys
// cannot diverge because the greedy assignment is deterministic per key.
func (r *Resolver) clusterFuzzy(mentions []Mention) (entities []Entity) {
	keyOrder := []string{}
	byKey := map[string][]int{}
	for i, m := range mentions {
		key := normalize.FuzzyKey(m.Name)
		if key == "" {
			continue
		}
		if _, ok := byKey[key]; !ok {
			keyOrder = append(keyOrder, key)
		}
		byKey[key] = append(byKey[key], i)
	}

	items := make([]cluster.Item, len(keyOrder))
	for i, key := range keyOrder {
		items[i] = cluster.Item{ID: i, Key: key}
	}

	for _, c := range r.Clusterer.Cluster(items) {
		e := Entity{Key: c.Rep}
		for _, id := range c.IDs {
			for _, mi := range byKey[keyOrder[id]] {
				m := mentions[mi]
				if e.Repr == "" {
					e.Repr = m.Name
				}
				appendMember(&e, m)
			}
		}
		entities = append(entities, e)
	}

	return entities
}

// appendMember folds a mention into an entity, deduplicating links while
// preserving order.
func appendMember(e *Entity, m Mention) {
	e.Names = append(e.Names, m.Name)
	e.Evidence = appendUnique(e.Evidence, m.Evidence)
	e.DatasetURLs = appendUnique(e.DatasetURLs, m.DatasetURLs)
}

func appendUnique(dst []string, src []string) (out []string) {
	out = dst
	for _, s := range src {
		if s == "" {
			continue
		}
		found := false
		for _, have := range out {
			if have == s {
				found = true
				break
			}
		}
		if !found {
			out = append(out, s)
		}
	}
	return out
}
