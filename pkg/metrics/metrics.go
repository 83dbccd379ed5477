// Package metrics holds the per-workbook metric rows and the corpus-level
// micro aggregation across workbooks.
package metrics

// Workbook row statuses.
const (
	StatusOK           = "ok"
	StatusNoGold       = "skipped_no_gold"
	StatusNoCandidates = "skipped_no_candidates"
	StatusInputError   = "input_error"
)

// ViewCounts carries the raw numerators and denominators of one match-
// strength view. Percentages are derived, never stored, so rows and
// aggregates share the same arithmetic.
type ViewCounts struct {
	Entities       int
	Hits           int
	GoldTotal      int
	EvidenceBacked int // hit entities with any evidence link
	TrustedBacked  int // hit entities with PID or trusted-host evidence
	WithDatasetURL int // hit entities with a dataset URL
	WithWorkingURL int // hit entities with a confirmed-working dataset URL
}

// Recall is hit entities over gold cardinality, in percent. Hits count
// entities, not gold items, so recall can exceed 100.
func (v *ViewCounts) Recall() (pct float64) {
	pct = Percent(v.Hits, v.GoldTotal)
	return pct
}

// EvidenceBackedRecall slices recall down to evidence-backed hits.
func (v *ViewCounts) EvidenceBackedRecall() (pct float64) {
	pct = Percent(v.EvidenceBacked, v.GoldTotal)
	return pct
}

// TrustedBackedRecall slices recall down to trusted-backed hits.
func (v *ViewCounts) TrustedBackedRecall() (pct float64) {
	pct = Percent(v.TrustedBacked, v.GoldTotal)
	return pct
}

// DatasetURLRecall slices recall down to hits carrying a dataset URL.
func (v *ViewCounts) DatasetURLRecall() (pct float64) {
	pct = Percent(v.WithDatasetURL, v.GoldTotal)
	return pct
}

// WorkingURLRecall slices recall down to hits whose dataset URL was
// confirmed working by the optional live check.
func (v *ViewCounts) WorkingURLRecall() (pct float64) {
	pct = Percent(v.WithWorkingURL, v.GoldTotal)
	return pct
}

// Add accumulates another view's counts (micro aggregation).
func (v *ViewCounts) Add(o ViewCounts) {
	v.Entities += o.Entities
	v.Hits += o.Hits
	v.GoldTotal += o.GoldTotal
	v.EvidenceBacked += o.EvidenceBacked
	v.TrustedBacked += o.TrustedBacked
	v.WithDatasetURL += o.WithDatasetURL
	v.WithWorkingURL += o.WithWorkingURL
}

// Counts is the metric set shared by per-file rows and per-method
// aggregates.
type Counts struct {
	Mentions int
	Unnamed  int

	Exact ViewCounts
	Norm  ViewCounts
	Fuzzy ViewCounts

	// Evidence distribution over all Norm entities (not hit-conditioned).
	EvidencePID         int
	EvidenceTrustedHost int
	EvidenceOtherLink   int
	EvidenceNone        int

	// Novelty against an optional baseline, over Norm entities.
	NovelNorm   int
	HasBaseline bool

	URLsChecked bool
}

// FuzzyGain is the recall unlocked by relaxing Norm matching to Fuzzy.
func (c *Counts) FuzzyGain() (gain float64) {
	gain = c.Fuzzy.Recall() - c.Norm.Recall()
	return gain
}

// Redundancy is the mention-to-entity collapse ratio under Norm. Diagnostic
// only; it never feeds recall.
func (c *Counts) Redundancy() (rate float64) {
	n := c.Norm.Entities
	if c.Mentions <= n {
		rate = 0
		return rate
	}
	d := n
	if d < 1 {
		d = 1
	}
	rate = float64(c.Mentions-n) / float64(d)
	return rate
}

// PIDRate is the share of Norm entities classified as PID, in percent.
func (c *Counts) PIDRate() (pct float64) {
	pct = Percent(c.EvidencePID, c.Norm.Entities)
	return pct
}

// Novelty is the share of Norm entities absent from the baseline, in
// percent. Meaningless unless HasBaseline is set.
func (c *Counts) Novelty() (pct float64) {
	pct = Percent(c.NovelNorm, c.Norm.Entities)
	return pct
}

// Add accumulates another count set. Summing numerators and denominators
// before dividing is what makes the aggregate a micro average; averaging
// the derived percentages instead would be a macro average and is
// deliberately not offered.
func (c *Counts) Add(o Counts) {
	c.Mentions += o.Mentions
	c.Unnamed += o.Unnamed
	c.Exact.Add(o.Exact)
	c.Norm.Add(o.Norm)
	c.Fuzzy.Add(o.Fuzzy)
	c.EvidencePID += o.EvidencePID
	c.EvidenceTrustedHost += o.EvidenceTrustedHost
	c.EvidenceOtherLink += o.EvidenceOtherLink
	c.EvidenceNone += o.EvidenceNone
	c.NovelNorm += o.NovelNorm
	c.HasBaseline = c.HasBaseline || o.HasBaseline
	c.URLsChecked = c.URLsChecked || o.URLsChecked
}

// Row is the full metric set for one (workbook, method) pair.
type Row struct {
	Workbook string
	Method   string
	Status   string
	Counts
}

// Aggregate is the corpus-wide micro aggregate for one method.
type Aggregate struct {
	Method    string
	Workbooks int
	Skipped   int
	Counts
}

// AddRow folds a per-file row into the aggregate. Skipped rows still
// contribute their entity and evidence counts; their recall numerators and
// denominators are zero (no gold) or zero-hit (no candidates) by
// construction, so no special casing is needed for the recall sums.
func (a *Aggregate) AddRow(r Row) {
	a.Workbooks++
	if r.Status != StatusOK {
		a.Skipped++
	}
	a.Counts.Add(r.Counts)
}

// AggregateRows builds per-method aggregates in first-seen method order.
func AggregateRows(rows []Row) (aggs []Aggregate) {
	index := map[string]int{}
	for _, r := range rows {
		i, ok := index[r.Method]
		if !ok {
			i = len(aggs)
			index[r.Method] = i
			aggs = append(aggs, Aggregate{Method: r.Method})
		}
		aggs[i].AddRow(r)
	}
	return aggs
}

// Percent returns 100*n/d, or 0 when the denominator is not positive.
func Percent(n, d int) (pct float64) {
	if d <= 0 {
		pct = 0
		return pct
	}
	pct = 100.0 * float64(n) / float64(d)
	return pct
}
