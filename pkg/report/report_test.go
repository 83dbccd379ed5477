package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarbench/mentionbench/pkg/metrics"
)

func readTSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	records, err := r.ReadAll()
	require.NoError(t, err)
	return records
}

func cell(t *testing.T, records [][]string, row int, column string) string {
	t.Helper()

	for i, name := range records[0] {
		if name == column {
			return records[row][i]
		}
	}
	t.Fatalf("no column %q", column)
	return ""
}

func TestWritePerFile(t *testing.T) {
	row := metrics.Row{
		Workbook: "rq1",
		Method:   "ours",
		Status:   metrics.StatusOK,
	}
	row.Mentions = 5
	row.Unnamed = 1
	row.Norm = metrics.ViewCounts{Entities: 3, Hits: 2, GoldTotal: 4, EvidenceBacked: 1}
	row.Fuzzy = metrics.ViewCounts{Entities: 2, Hits: 3, GoldTotal: 4}
	row.EvidencePID = 1
	row.EvidenceNone = 2

	path := filepath.Join(t.TempDir(), "per_file.tsv")
	require.NoError(t, WritePerFile(path, []metrics.Row{row}))

	records := readTSV(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, perFileHeader, records[0])
	assert.Len(t, records[1], len(perFileHeader))

	assert.Equal(t, "rq1", cell(t, records, 1, "File"))
	assert.Equal(t, "ours", cell(t, records, 1, "Method"))
	assert.Equal(t, "ok", cell(t, records, 1, "Status"))
	assert.Equal(t, "5", cell(t, records, 1, "Mentions"))
	assert.Equal(t, "50.00", cell(t, records, 1, "Recall_Norm_percent"))
	assert.Equal(t, "75.00", cell(t, records, 1, "Recall_Fuzzy_percent"))
	assert.Equal(t, "25.00", cell(t, records, 1, "FuzzyGain"))
	assert.Equal(t, "25.00", cell(t, records, 1, "EvidenceBacked_Recall_Norm_percent"))
	assert.Equal(t, "2", cell(t, records, 1, "Hit_Norm"))
	assert.Equal(t, "4", cell(t, records, 1, "Gold_Norm"))

	// 5 mentions over 3 norm entities.
	assert.Equal(t, "0.6667", cell(t, records, 1, "Redundancy_rate"))
}

func TestWritePerFileOptionalColumns(t *testing.T) {
	unchecked := metrics.Row{Workbook: "a", Method: "ours", Status: metrics.StatusOK}

	checked := metrics.Row{Workbook: "b", Method: "ours", Status: metrics.StatusOK}
	checked.URLsChecked = true
	checked.HasBaseline = true
	checked.Norm = metrics.ViewCounts{Entities: 2, Hits: 1, GoldTotal: 2, WithWorkingURL: 1}
	checked.NovelNorm = 1

	path := filepath.Join(t.TempDir(), "per_file.tsv")
	require.NoError(t, WritePerFile(path, []metrics.Row{unchecked, checked}))

	records := readTSV(t, path)
	require.Len(t, records, 3)

	assert.Equal(t, "N/A", cell(t, records, 1, "Recall_withValidDatasetURL_Norm_percent"))
	assert.Equal(t, "N/A", cell(t, records, 1, "Novelty_Norm_percent"))

	assert.Equal(t, "50.00", cell(t, records, 2, "Recall_withValidDatasetURL_Norm_percent"))
	assert.Equal(t, "50.00", cell(t, records, 2, "Novelty_Norm_percent"))
}

func TestWriteAggregate(t *testing.T) {
	agg := metrics.Aggregate{Method: "ours", Workbooks: 3, Skipped: 1}
	agg.Norm = metrics.ViewCounts{Entities: 10, Hits: 6, GoldTotal: 8}

	path := filepath.Join(t.TempDir(), "aggregate.tsv")
	require.NoError(t, WriteAggregate(path, []metrics.Aggregate{agg}))

	records := readTSV(t, path)
	require.Len(t, records, 2)
	assert.Equal(t, aggregateHeader, records[0])

	assert.Equal(t, "ours", cell(t, records, 1, "Method"))
	assert.Equal(t, "3", cell(t, records, 1, "Workbooks"))
	assert.Equal(t, "1", cell(t, records, 1, "Skipped"))
	assert.Equal(t, "75.00", cell(t, records, 1, "Recall_Norm_percent"))
}

func TestRecallAboveHundredSurvivesFormatting(t *testing.T) {
	row := metrics.Row{Workbook: "rq1", Method: "ours", Status: metrics.StatusOK}
	row.Norm = metrics.ViewCounts{Entities: 3, Hits: 3, GoldTotal: 2}

	path := filepath.Join(t.TempDir(), "per_file.tsv")
	require.NoError(t, WritePerFile(path, []metrics.Row{row}))

	records := readTSV(t, path)
	assert.Equal(t, "150.00", cell(t, records, 1, "Recall_Norm_percent"))
}
