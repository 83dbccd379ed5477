package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarbench/mentionbench/pkg/cluster"
	"github.com/scholarbench/mentionbench/pkg/similarity"
)

func newTestResolver(threshold float64) *Resolver {
	return NewResolver(cluster.NewGreedy(similarity.Sequence{}, threshold))
}

func namedMentions(names ...string) (mentions []Mention) {
	for _, n := range names {
		mentions = append(mentions, Mention{Name: n})
	}
	return mentions
}

func TestResolveExactVsNorm(t *testing.T) {
	r := newTestResolver(0.9)

	views := r.Resolve(namedMentions("COCO", "coco ", "COCO.", "MNIST"))

	// Exact preserves case and only trims whitespace: all four distinct.
	assert.Len(t, views.Exact, 4)

	// Norm folds case and punctuation: coco and mnist.
	require.Len(t, views.Norm, 2)
	assert.Equal(t, "coco", views.Norm[0].Key)
	assert.Equal(t, "mnist", views.Norm[1].Key)

	// Representative is the first-encountered member.
	assert.Equal(t, "COCO", views.Norm[0].Repr)
	assert.Equal(t, []string{"COCO", "coco ", "COCO."}, views.Norm[0].Names)
}

func TestResolveDropsUnnamed(t *testing.T) {
	r := newTestResolver(0.9)

	views := r.Resolve(namedMentions("COCO", "", "   ", "MNIST"))

	assert.Equal(t, 2, views.Mentions)
	assert.Equal(t, 2, views.Unnamed)
	assert.Len(t, views.Exact, 2)
	assert.Len(t, views.Norm, 2)
	assert.Len(t, views.Fuzzy, 2)
}

func TestResolveEvidenceUnion(t *testing.T) {
	r := newTestResolver(0.9)

	views := r.Resolve([]Mention{
		{Name: "COCO", Evidence: []string{"https://a.example/paper1"}},
		{Name: "coco", Evidence: []string{"https://a.example/paper1", "https://b.example/paper2"}, DatasetURLs: []string{"https://cocodataset.org"}},
	})

	require.Len(t, views.Norm, 1)
	e := views.Norm[0]
	assert.Equal(t, []string{"https://a.example/paper1", "https://b.example/paper2"}, e.Evidence)
	assert.True(t, e.HasDatasetURL(), "any member's dataset URL must count for the entity")
}

func TestResolveFuzzyMerges(t *testing.T) {
	r := newTestResolver(0.9)

	views := r.Resolve(namedMentions("CIFAR-10", "CIFAR 10", "cifar10.", "MNIST"))

	// All CIFAR variants share the fuzzy key "cifar 10"/"cifar10" family.
	assert.Len(t, views.Norm, 4)
	require.Len(t, views.Fuzzy, 2)
	assert.Equal(t, "CIFAR-10", views.Fuzzy[0].Repr)
	assert.Len(t, views.Fuzzy[0].Names, 3)
}

// Each view may only coarsen: |Fuzzy| <= |Norm| <= |Exact| <= mentions.
func TestResolveMonotonicity(t *testing.T) {
	sets := [][]string{
		{"COCO", "coco ", "COCO.", "MNIST"},
		{"CIFAR-10", "CIFAR 10", "cifar10", "CIFAR-100", "SQuAD", "squad"},
		{"ImageNet", "image net", "IMAGENET", "imagenet-1k", "LAION-400M"},
		{"a", "b", "c"},
		{},
	}

	for _, threshold := range []float64{0.5, 0.9, 1.0} {
		r := newTestResolver(threshold)
		for _, names := range sets {
			views := r.Resolve(namedMentions(names...))

			assert.LessOrEqual(t, len(views.Fuzzy), len(views.Norm), "threshold %v names %v", threshold, names)
			assert.LessOrEqual(t, len(views.Norm), len(views.Exact), "threshold %v names %v", threshold, names)
			assert.LessOrEqual(t, len(views.Exact), views.Mentions, "threshold %v names %v", threshold, names)
		}
	}
}

// At threshold 1.0 the fuzzy view must equal grouping by fuzzy key.
func TestResolveFuzzyExactAtOne(t *testing.T) {
	names := []string{"CIFAR-10", "cifar 10", "MNIST", "mnist.", "SQuAD"}
	r := newTestResolver(1.0)

	views := r.Resolve(namedMentions(names...))

	wantReps := []string{"cifar10", "cifar 10", "mnist", "squad"}
	require.Len(t, views.Fuzzy, len(wantReps))
	for i, e := range views.Fuzzy {
		assert.Equal(t, wantReps[i], e.Key)
	}
}
