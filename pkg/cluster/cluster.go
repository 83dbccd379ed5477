// Package cluster groups keyed items by string similarity.
package cluster

import (
	"github.com/scholarbench/mentionbench/pkg/similarity"
)

// Item is one unit of clustering: an opaque caller ID plus the key the item
// is compared on.
type Item struct {
	ID  int
	Key string
}

// Cluster is one output group. Rep is the key of the first member and is
// never updated afterwards.
type Cluster struct {
	Rep string
	IDs []int
}

// Clusterer partitions an ordered item sequence into clusters. The input
// order is part of the contract: callers must supply the same stable order
// on every run for reproducible results.
type Clusterer interface {
	Cluster(items []Item) []Cluster
}

// Greedy is single-link greedy clustering. Each incoming item is compared
// against the fixed representative of every existing cluster, in cluster
// creation order, and joins the first one whose similarity meets the
// threshold; otherwise it starts a new singleton.
//
// Results are order-sensitive. Two items that each clear the threshold
// against a representative need not clear it against each other, so a
// different input order can produce a different partition; run-over-run
// stability comes from the caller's fixed ordering.
type Greedy struct {
	Scorer    similarity.Scorer
	Threshold float64
}

// NewGreedy creates a greedy clusterer over the given scorer and threshold.
func NewGreedy(scorer similarity.Scorer, threshold float64) (g *Greedy) {
	g = &Greedy{
		Scorer:    scorer,
		Threshold: threshold,
	}
	return g
}

// Cluster partitions items. Every input ID lands in exactly one cluster for
// any threshold; a threshold of 1.0 degenerates to exact key grouping
// because identical keys always score 1.0.
func (g *Greedy) Cluster(items []Item) (clusters []Cluster) {
	for _, it := range items {
		assigned := false
		for i := range clusters {
			if g.Scorer.Ratio(it.Key, clusters[i].Rep) >= g.Threshold {
				clusters[i].IDs = append(clusters[i].IDs, it.ID)
				assigned = true
				break
			}
		}
		if !assigned {
			clusters = append(clusters, Cluster{Rep: it.Key, IDs: []int{it.ID}})
		}
	}

	return clusters
}
