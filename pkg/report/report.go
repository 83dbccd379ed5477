// Package report writes the per-file and aggregate metric tables as TSV.
package report

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/scholarbench/mentionbench/pkg/metrics"
)

// perFileHeader is the fixed per-file column order.
var perFileHeader = []string{
	"File", "Method", "Status", "Mentions", "Unnamed",
	"Entities_Exact", "Entities_Norm", "Entities_Fuzzy",
	"Recall_Exact_percent", "Recall_Norm_percent", "Recall_Fuzzy_percent",
	"FuzzyGain",
	"EvidenceBacked_Recall_Exact_percent", "EvidenceBacked_Recall_Norm_percent", "EvidenceBacked_Recall_Fuzzy_percent",
	"TrustedBacked_Recall_Exact_percent", "TrustedBacked_Recall_Norm_percent", "TrustedBacked_Recall_Fuzzy_percent",
	"Recall_withDatasetURL_Exact_percent", "Recall_withDatasetURL_Norm_percent", "Recall_withDatasetURL_Fuzzy_percent",
	"Recall_withValidDatasetURL_Exact_percent", "Recall_withValidDatasetURL_Norm_percent", "Recall_withValidDatasetURL_Fuzzy_percent",
	"Hit_Exact", "Gold_Exact", "Hit_Norm", "Gold_Norm", "Hit_Fuzzy", "Gold_Fuzzy",
	"Evidence_PID", "Evidence_TrustedHost", "Evidence_OtherLink", "Evidence_None",
	"PID_Rate_percent", "Redundancy_rate", "Novelty_Norm_percent",
}

// aggregateHeader is the fixed aggregate column order: one row per method.
var aggregateHeader = []string{
	"Method", "Workbooks", "Skipped", "Mentions", "Unnamed",
	"Entities_Exact", "Entities_Norm", "Entities_Fuzzy",
	"Recall_Exact_percent", "Recall_Norm_percent", "Recall_Fuzzy_percent",
	"FuzzyGain",
	"EvidenceBacked_Recall_Exact_percent", "EvidenceBacked_Recall_Norm_percent", "EvidenceBacked_Recall_Fuzzy_percent",
	"TrustedBacked_Recall_Exact_percent", "TrustedBacked_Recall_Norm_percent", "TrustedBacked_Recall_Fuzzy_percent",
	"Recall_withDatasetURL_Exact_percent", "Recall_withDatasetURL_Norm_percent", "Recall_withDatasetURL_Fuzzy_percent",
	"Recall_withValidDatasetURL_Exact_percent", "Recall_withValidDatasetURL_Norm_percent", "Recall_withValidDatasetURL_Fuzzy_percent",
	"Hit_Exact", "Gold_Exact", "Hit_Norm", "Gold_Norm", "Hit_Fuzzy", "Gold_Fuzzy",
	"Evidence_PID", "Evidence_TrustedHost", "Evidence_OtherLink", "Evidence_None",
	"PID_Rate_percent", "Redundancy_rate", "Novelty_Norm_percent",
}

// WritePerFile writes one row per (workbook, method).
func WritePerFile(path string, rows []metrics.Row) (err error) {
	records := [][]string{perFileHeader}
	for _, r := range rows {
		rec := []string{r.Workbook, r.Method, r.Status, itoa(r.Mentions), itoa(r.Unnamed)}
		rec = append(rec, countsCells(&r.Counts)...)
		records = append(records, rec)
	}

	err = writeTSV(path, records)
	return err
}

// WriteAggregate writes one micro-aggregated row per method.
func WriteAggregate(path string, aggs []metrics.Aggregate) (err error) {
	records := [][]string{aggregateHeader}
	for _, a := range aggs {
		rec := []string{a.Method, itoa(a.Workbooks), itoa(a.Skipped), itoa(a.Mentions), itoa(a.Unnamed)}
		rec = append(rec, countsCells(&a.Counts)...)
		records = append(records, rec)
	}

	err = writeTSV(path, records)
	return err
}

// countsCells renders the shared metric block in header order.
func countsCells(c *metrics.Counts) (cells []string) {
	views := []*metrics.ViewCounts{&c.Exact, &c.Norm, &c.Fuzzy}

	cells = append(cells, itoa(c.Exact.Entities), itoa(c.Norm.Entities), itoa(c.Fuzzy.Entities))

	for _, v := range views {
		cells = append(cells, pct(v.Recall()))
	}
	cells = append(cells, pct(c.FuzzyGain()))
	for _, v := range views {
		cells = append(cells, pct(v.EvidenceBackedRecall()))
	}
	for _, v := range views {
		cells = append(cells, pct(v.TrustedBackedRecall()))
	}
	for _, v := range views {
		cells = append(cells, pct(v.DatasetURLRecall()))
	}
	for _, v := range views {
		if c.URLsChecked {
			cells = append(cells, pct(v.WorkingURLRecall()))
		} else {
			cells = append(cells, "N/A")
		}
	}
	for _, v := range views {
		cells = append(cells, itoa(v.Hits), itoa(v.GoldTotal))
	}

	cells = append(cells,
		itoa(c.EvidencePID), itoa(c.EvidenceTrustedHost),
		itoa(c.EvidenceOtherLink), itoa(c.EvidenceNone),
		pct(c.PIDRate()),
		strconv.FormatFloat(c.Redundancy(), 'f', 4, 64),
	)

	if c.HasBaseline {
		cells = append(cells, pct(c.Novelty()))
	} else {
		cells = append(cells, "N/A")
	}

	return cells
}

func writeTSV(path string, records [][]string) (err error) {
	var f *os.File
	f, err = os.Create(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to create report: %s", path)
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = '\t'
	err = w.WriteAll(records)
	if err != nil {
		err = errors.Wrapf(err, "failed to write report: %s", path)
		return err
	}

	return err
}

func itoa(n int) (s string) {
	s = strconv.Itoa(n)
	return s
}

func pct(v float64) (s string) {
	s = strconv.FormatFloat(v, 'f', 2, 64)
	return s
}
