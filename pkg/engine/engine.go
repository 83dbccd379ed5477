// Package engine runs the benchmark: it evaluates each workbook's method
// tables against the workbook's gold list and micro-aggregates the results.
package engine

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/scholarbench/mentionbench/pkg/cluster"
	"github.com/scholarbench/mentionbench/pkg/config"
	"github.com/scholarbench/mentionbench/pkg/entity"
	"github.com/scholarbench/mentionbench/pkg/evidence"
	"github.com/scholarbench/mentionbench/pkg/metrics"
	"github.com/scholarbench/mentionbench/pkg/normalize"
	"github.com/scholarbench/mentionbench/pkg/similarity"
	"github.com/scholarbench/mentionbench/pkg/urlcheck"
)

// MethodTable is one method's ordered mention list for one workbook. The
// order is the extraction order and must not be re-sorted: fuzzy clustering
// results depend on it, and reproducibility comes from keeping it stable.
type MethodTable struct {
	Method   string
	Mentions []entity.Mention
}

// Workbook is one immutable unit of analysis: a gold list plus one mention
// table per evaluated method. Workbooks are independent; nothing is shared
// across them during evaluation.
type Workbook struct {
	Name    string
	Gold    []string
	Methods []MethodTable

	// Err marks a workbook that could not be ingested. It is reported as
	// a row status and never aborts the batch.
	Err error
}

// Engine evaluates workbooks. It is safe for concurrent use: all fields are
// set at construction and read-only afterwards.
type Engine struct {
	scorer     similarity.Scorer
	threshold  float64
	classifier *evidence.Classifier
	checker    *urlcheck.Checker // nil when live checks are off
	baseline   map[string]struct{}
	workers    int
}

// New builds an engine from a validated config and an optional baseline
// name list (for novelty).
func New(cfg config.Config, baselineNames []string) (e *Engine, err error) {
	var scorer similarity.Scorer
	scorer, err = similarity.New(cfg.Similarity)
	if err != nil {
		err = errors.Wrap(err, "invalid similarity setting")
		return e, err
	}

	e = &Engine{
		scorer:     scorer,
		threshold:  cfg.FuzzyThreshold,
		classifier: evidence.NewClassifier(cfg.TrustedHosts),
		workers:    cfg.Workers,
	}

	if cfg.CheckURLs {
		e.checker = urlcheck.New(time.Duration(cfg.CheckTimeoutSeconds)*time.Second, cfg.Workers)
	}

	if len(baselineNames) > 0 {
		e.baseline = map[string]struct{}{}
		for _, n := range baselineNames {
			if key := normalize.CanonicalNorm(n); key != "" {
				e.baseline[key] = struct{}{}
			}
		}
	}

	return e, err
}

// Run evaluates all workbooks, fanning out across workers, and returns the
// per-file rows in input order plus the per-method micro aggregates. The
// merge is a sum of counts, so the result does not depend on completion
// order or worker count.
func (e *Engine) Run(ctx context.Context, workbooks []Workbook) (rows []metrics.Row, aggs []metrics.Aggregate, err error) {
	perWorkbook := make([][]metrics.Row, len(workbooks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range workbooks {
		i := i
		g.Go(func() error {
			perWorkbook[i] = e.EvaluateWorkbook(ctx, &workbooks[i])
			return ctx.Err()
		})
	}
	err = g.Wait()
	if err != nil {
		err = errors.Wrap(err, "evaluation aborted")
		return rows, aggs, err
	}

	for _, wbRows := range perWorkbook {
		rows = append(rows, wbRows...)
	}
	aggs = metrics.AggregateRows(rows)

	return rows, aggs, err
}

// EvaluateWorkbook computes one row per method table. The computation is
// pure over the workbook snapshot (live URL checks excepted) and
// all-or-nothing: no partial metrics escape.
func (e *Engine) EvaluateWorkbook(ctx context.Context, wb *Workbook) (rows []metrics.Row) {
	if wb.Err != nil {
		rows = append(rows, metrics.Row{
			Workbook: wb.Name,
			Status:   metrics.StatusInputError,
		})
		return rows
	}

	clusterer := cluster.NewGreedy(e.scorer, e.threshold)
	gold := entity.BuildGold(wb.Gold, clusterer)

	for _, mt := range wb.Methods {
		rows = append(rows, e.evaluateMethod(ctx, wb.Name, mt, &gold))
	}

	return rows
}

// evaluateMethod computes the full metric row for one (workbook, method).
func (e *Engine) evaluateMethod(ctx context.Context, workbook string, mt MethodTable, gold *entity.GoldViews) (row metrics.Row) {
	row = metrics.Row{
		Workbook: workbook,
		Method:   mt.Method,
		Status:   metrics.StatusOK,
	}

	clusterer := cluster.NewGreedy(e.scorer, e.threshold)
	resolver := entity.NewResolver(clusterer)
	views := resolver.Resolve(mt.Mentions)

	row.Mentions = views.Mentions
	row.Unnamed = views.Unnamed
	row.URLsChecked = e.checker != nil

	if gold.Total(entity.ViewNorm) == 0 {
		row.Status = metrics.StatusNoGold
	} else if views.Mentions == 0 {
		row.Status = metrics.StatusNoCandidates
	}

	matcher := entity.NewMatcher(e.scorer, e.threshold)
	row.Exact = e.viewCounts(ctx, views.Exact, entity.ViewExact, gold, matcher)
	row.Norm = e.viewCounts(ctx, views.Norm, entity.ViewNorm, gold, matcher)
	row.Fuzzy = e.viewCounts(ctx, views.Fuzzy, entity.ViewFuzzy, gold, matcher)

	// Evidence distribution and novelty run over all Norm entities,
	// regardless of gold hits.
	for _, ent := range views.Norm {
		rec := e.classifier.Classify(&ent)
		switch rec.Category {
		case evidence.CategoryPID:
			row.EvidencePID++
		case evidence.CategoryTrustedHost:
			row.EvidenceTrustedHost++
		case evidence.CategoryOtherLink:
			row.EvidenceOtherLink++
		case evidence.CategoryNone:
			row.EvidenceNone++
		}

		if e.baseline != nil {
			if _, known := e.baseline[ent.Key]; !known {
				row.NovelNorm++
			}
		}
	}
	row.HasBaseline = e.baseline != nil

	return row
}

// viewCounts computes one view's numerators and denominators. Recall-
// conditioned evidence slices (evidence-backed, trusted-backed, dataset-URL)
// are restricted to hit entities; gold denominators are always recorded so
// zero-hit methods still weigh into the micro aggregate.
func (e *Engine) viewCounts(ctx context.Context, entities []entity.Entity, v entity.View, gold *entity.GoldViews, matcher *entity.Matcher) (counts metrics.ViewCounts) {
	counts.Entities = len(entities)
	counts.GoldTotal = gold.Total(v)
	if counts.GoldTotal == 0 {
		return counts
	}

	hits := matcher.Hits(entities, v, gold)
	counts.Hits = len(hits)

	for _, h := range hits {
		rec := e.classifier.Classify(&h)
		if rec.HasAny {
			counts.EvidenceBacked++
		}
		if rec.Category == evidence.CategoryPID || rec.Category == evidence.CategoryTrustedHost {
			counts.TrustedBacked++
		}
		if rec.HasDatasetURL {
			counts.WithDatasetURL++
			if e.checker != nil && e.checker.AnyWorking(ctx, h.DatasetURLs) {
				counts.WithWorkingURL++
			}
		}
	}

	return counts
}
