// Package entity collapses raw dataset-name mentions into deduplicated
// entities at three match strengths and matches them against gold lists.
package entity

// Mention is one raw occurrence of a candidate dataset name together with
// the evidence links extracted alongside it. Mentions are immutable inputs;
// the extraction collaborator produces them in a stable order that this
// package preserves.
type Mention struct {
	Name        string
	Evidence    []string // citing/cited/source links, any shape
	DatasetURLs []string // the dedicated dataset-URL field, when present
}

// View identifies one of the three match strengths.
type View string

// Match-strength views, from strictest to loosest.
const (
	ViewExact View = "Exact"
	ViewNorm  View = "Norm"
	ViewFuzzy View = "Fuzzy"
)

// Views enumerates the three views in reporting order.
func AllViews() (views []View) {
	views = []View{ViewExact, ViewNorm, ViewFuzzy}
	return views
}

// Entity is a cluster of one or more mentions collapsed under a single key.
// Repr is the name of the first-encountered member in input order; Key is
// the canonical key of the view that built the entity (for the fuzzy view,
// the cluster representative's fuzzy key). Evidence and DatasetURLs are the
// union over all members.
type Entity struct {
	Repr        string
	Key         string
	Names       []string
	Evidence    []string
	DatasetURLs []string
}

// HasDatasetURL reports whether any member contributed a dataset URL.
func (e *Entity) HasDatasetURL() (ok bool) {
	ok = len(e.DatasetURLs) > 0
	return ok
}
