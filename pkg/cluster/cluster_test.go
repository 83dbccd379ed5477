package cluster

import (
	"testing"

	"github.com/scholarbench/mentionbench/pkg/similarity"
)

func items(keys ...string) (out []Item) {
	out = make([]Item, len(keys))
	for i, k := range keys {
		out[i] = Item{ID: i, Key: k}
	}
	return out
}

func TestGreedyCluster(t *testing.T) {
	g := NewGreedy(similarity.Sequence{}, 0.9)

	clusters := g.Cluster(items("imagenet", "imagenet 1k", "mnist", "imagenet"))

	if len(clusters) != 3 {
		t.Fatalf("Expected 3 clusters, got %d", len(clusters))
	}

	// Identical key joins the first cluster.
	if len(clusters[0].IDs) != 2 {
		t.Errorf("Expected first cluster to hold ids 0 and 3, got %v", clusters[0].IDs)
	}
	if clusters[0].Rep != "imagenet" {
		t.Errorf("Expected representative 'imagenet', got %q", clusters[0].Rep)
	}
}

func TestGreedyClusterMerges(t *testing.T) {
	// "cifar10" vs "cifar100": ratio 14/15 ≈ 0.933.
	g := NewGreedy(similarity.Sequence{}, 0.9)

	clusters := g.Cluster(items("cifar10", "cifar100"))
	if len(clusters) != 1 {
		t.Fatalf("Expected 1 cluster, got %d", len(clusters))
	}
	if clusters[0].Rep != "cifar10" {
		t.Errorf("Representative must stay the first member, got %q", clusters[0].Rep)
	}
}

// Every input ID must appear in exactly one cluster, regardless of threshold.
func TestGreedyClusterPartition(t *testing.T) {
	keys := []string{"coco", "coco 2017", "mnist", "fashion mnist", "coco", "", "squad v2", "squad v20"}

	for _, threshold := range []float64{0.01, 0.5, 0.9, 1.0} {
		g := NewGreedy(similarity.Sequence{}, threshold)
		clusters := g.Cluster(items(keys...))

		seen := map[int]int{}
		for _, c := range clusters {
			for _, id := range c.IDs {
				seen[id]++
			}
		}

		if len(seen) != len(keys) {
			t.Errorf("threshold %v: %d ids clustered, want %d", threshold, len(seen), len(keys))
		}
		for id, n := range seen {
			if n != 1 {
				t.Errorf("threshold %v: id %d appears %d times", threshold, id, n)
			}
		}
	}
}

// At threshold 1.0 greedy clustering must equal exact key grouping.
func TestGreedyClusterExactAtOne(t *testing.T) {
	keys := []string{"coco", "mnist", "coco", "cifar10", "mnist", "coco"}
	g := NewGreedy(similarity.Sequence{}, 1.0)

	clusters := g.Cluster(items(keys...))

	want := map[string][]int{
		"coco":    {0, 2, 5},
		"mnist":   {1, 4},
		"cifar10": {3},
	}

	if len(clusters) != len(want) {
		t.Fatalf("Expected %d clusters, got %d", len(want), len(clusters))
	}
	for _, c := range clusters {
		ids, ok := want[c.Rep]
		if !ok {
			t.Errorf("Unexpected cluster rep %q", c.Rep)
			continue
		}
		if len(ids) != len(c.IDs) {
			t.Errorf("Cluster %q has ids %v, want %v", c.Rep, c.IDs, ids)
			continue
		}
		for i := range ids {
			if c.IDs[i] != ids[i] {
				t.Errorf("Cluster %q has ids %v, want %v", c.Rep, c.IDs, ids)
				break
			}
		}
	}
}

// A near-zero threshold collapses nearly everything but must still terminate
// with a valid partition.
func TestGreedyClusterLowThreshold(t *testing.T) {
	g := NewGreedy(similarity.Sequence{}, 0.01)

	clusters := g.Cluster(items("alpha", "palm", "lambada", "gsm8k"))

	total := 0
	for _, c := range clusters {
		total += len(c.IDs)
	}
	if total != 4 {
		t.Errorf("Expected 4 ids across clusters, got %d", total)
	}
}

func TestGreedyClusterEmptyInput(t *testing.T) {
	g := NewGreedy(similarity.Sequence{}, 0.9)
	clusters := g.Cluster(nil)
	if len(clusters) != 0 {
		t.Errorf("Expected no clusters, got %d", len(clusters))
	}
}
