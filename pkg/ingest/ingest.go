// Package ingest maps spreadsheet workbooks onto the engine's input shape.
//
// The evaluation core never sees files or headers: this package owns schema
// mapping (candidate-column detection), gold resolution (explicit gold file,
// gold.csv, or per-workbook survey sheet) and method naming, and hands the
// engine ordered mention lists.
package ingest

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/scholarbench/mentionbench/pkg/config"
	"github.com/scholarbench/mentionbench/pkg/engine"
	"github.com/scholarbench/mentionbench/pkg/entity"
)

// Options controls schema mapping and gold resolution.
type Options struct {
	NameColumns   []string
	CitingColumns []string
	CitedColumns  []string
	URLColumn     string
	GoldFile      string
	GoldColumn    string
}

// OptionsFromConfig derives ingestion options from the app config.
func OptionsFromConfig(cfg config.Config) (opts Options) {
	opts = Options{
		NameColumns:   cfg.NameColumns,
		CitingColumns: cfg.CitingColumns,
		CitedColumns:  cfg.CitedColumns,
		URLColumn:     cfg.URLColumn,
		GoldFile:      cfg.GoldFile,
		GoldColumn:    cfg.GoldColumn,
	}
	return opts
}

// LoadDir reads every workbook in dir. Excel files contribute one workbook
// each, with sheets as method tables and a "survey" sheet as gold; TSV/CSV
// files contribute one workbook per file, with the method taken from a
// "#method" suffix on the base name. A workbook that cannot be opened is
// returned with its Err set rather than failing the batch.
func LoadDir(dir string, opts Options) (workbooks []engine.Workbook, err error) {
	var entries []os.DirEntry
	entries, err = os.ReadDir(dir)
	if err != nil {
		err = errors.Wrapf(err, "failed to read input directory: %s", dir)
		return workbooks, err
	}

	// Global gold beats per-workbook survey sheets.
	var globalGold []string
	if opts.GoldFile != "" {
		globalGold, err = LoadNameList(opts.GoldFile, opts.GoldColumn)
		if err != nil {
			err = errors.Wrap(err, "failed to load gold file")
			return workbooks, err
		}
	} else if _, statErr := os.Stat(filepath.Join(dir, "gold.csv")); statErr == nil {
		globalGold, err = LoadNameList(filepath.Join(dir, "gold.csv"), opts.GoldColumn)
		if err != nil {
			err = errors.Wrap(err, "failed to load gold.csv")
			return workbooks, err
		}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		switch strings.ToLower(filepath.Ext(name)) {
		case ".xlsx":
			workbooks = append(workbooks, loadExcel(path, opts, globalGold))
		case ".tsv", ".csv":
			if strings.EqualFold(name, "gold.csv") {
				continue
			}
			wb, ok := loadDelimited(path, opts, globalGold)
			if ok {
				workbooks = append(workbooks, wb)
			}
		}
	}

	// Flat TSV/CSV tables that share a workbook base collapse into one
	// workbook so their survey file can serve as that workbook's gold.
	workbooks = mergeByName(workbooks)
	for i := range workbooks {
		sortMethods(workbooks[i].Methods)
	}

	return workbooks, err
}

// loadExcel turns one .xlsx file into a workbook.
func loadExcel(path string, opts Options, globalGold []string) (wb engine.Workbook) {
	wb.Name = workbookBase(path)

	f, err := excelize.OpenFile(path)
	if err != nil {
		wb.Err = errors.Wrapf(err, "failed to open workbook: %s", path)
		return wb
	}
	defer f.Close()

	wb.Gold = globalGold
	for _, sheet := range f.GetSheetList() {
		rows, rowsErr := f.GetRows(sheet)
		if rowsErr != nil {
			wb.Err = errors.Wrapf(rowsErr, "failed to read sheet %s of %s", sheet, path)
			return wb
		}

		mentions := parseTable(rows, opts)
		if IsSurveyName(sheet) {
			if len(wb.Gold) == 0 {
				wb.Gold = mentionNames(mentions)
			}
			continue
		}
		wb.Methods = append(wb.Methods, engine.MethodTable{Method: sheet, Mentions: mentions})
	}

	return wb
}

// loadDelimited turns one TSV/CSV file into a workbook (or a gold-only
// workbook fragment when the file is a survey list). ok is false for files
// that should not appear in the output at all.
func loadDelimited(path string, opts Options, globalGold []string) (wb engine.Workbook, ok bool) {
	base := workbookBase(path)
	method := methodSuffix(path)

	wb.Name = base
	wb.Gold = globalGold
	ok = true

	rows, err := readDelimited(path)
	if err != nil {
		wb.Err = errors.Wrapf(err, "failed to read table: %s", path)
		return wb, ok
	}

	mentions := parseTable(rows, opts)
	if IsSurveyName(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))) {
		if len(wb.Gold) == 0 {
			wb.Gold = mentionNames(mentions)
		}
		return wb, ok
	}

	wb.Methods = []engine.MethodTable{{Method: method, Mentions: mentions}}
	return wb, ok
}

// mergeByName folds workbooks with the same name into one, combining method
// tables and keeping the first non-empty gold list and first error.
func mergeByName(in []engine.Workbook) (out []engine.Workbook) {
	index := map[string]int{}
	for _, wb := range in {
		i, seen := index[wb.Name]
		if !seen {
			index[wb.Name] = len(out)
			out = append(out, wb)
			continue
		}
		out[i].Methods = append(out[i].Methods, wb.Methods...)
		if len(out[i].Gold) == 0 {
			out[i].Gold = wb.Gold
		}
		if out[i].Err == nil {
			out[i].Err = wb.Err
		}
	}
	return out
}

// sortMethods orders method tables for reporting: ours, google, datacite,
// then the rest alphabetically.
func sortMethods(methods []engine.MethodTable) {
	rank := func(m string) int {
		switch strings.ToLower(m) {
		case "our", "ours":
			return 0
		case "google":
			return 1
		case "datacite":
			return 2
		}
		return 3
	}
	sort.SliceStable(methods, func(i, j int) bool {
		ri, rj := rank(methods[i].Method), rank(methods[j].Method)
		if ri != rj {
			return ri < rj
		}
		return methods[i].Method < methods[j].Method
	})
}

// parseTable maps raw sheet rows onto mentions. The first non-empty row is
// the header; a table without a recognizable name column yields no mentions.
func parseTable(rows [][]string, opts Options) (mentions []entity.Mention) {
	header, body := splitHeader(rows)
	if header == nil {
		return mentions
	}

	nameIdx := pickColumn(opts.NameColumns, header)
	if nameIdx < 0 {
		return mentions
	}

	// The dataset-URL column doubles as evidence, checked first.
	linkIdxs := []int{}
	urlIdx := -1
	if opts.URLColumn != "" {
		urlIdx = pickColumn([]string{opts.URLColumn}, header)
		if urlIdx >= 0 {
			linkIdxs = append(linkIdxs, urlIdx)
		}
	}
	for _, cand := range opts.CitingColumns {
		if i := pickColumn([]string{cand}, header); i >= 0 {
			linkIdxs = append(linkIdxs, i)
		}
	}
	for _, cand := range opts.CitedColumns {
		if i := pickColumn([]string{cand}, header); i >= 0 {
			linkIdxs = append(linkIdxs, i)
		}
	}

	for _, row := range body {
		if isEmptyRow(row) {
			continue
		}
		m := entity.Mention{Name: strings.TrimSpace(cell(row, nameIdx))}
		for _, li := range linkIdxs {
			if v := strings.TrimSpace(cell(row, li)); v != "" {
				m.Evidence = append(m.Evidence, v)
			}
		}
		if urlIdx >= 0 {
			if v := strings.TrimSpace(cell(row, urlIdx)); v != "" {
				m.DatasetURLs = append(m.DatasetURLs, v)
			}
		}
		mentions = append(mentions, m)
	}

	return mentions
}

// splitHeader returns the first non-empty row as header and the rest as
// body.
func splitHeader(rows [][]string) (header []string, body [][]string) {
	for i, row := range rows {
		if !isEmptyRow(row) {
			header = row
			body = rows[i+1:]
			return header, body
		}
	}
	return header, body
}

// pickColumn returns the index of the first candidate present among the
// headers, comparing normalized forms. -1 when none match.
func pickColumn(candidates []string, header []string) (idx int) {
	idx = -1
	norm := make([]string, len(header))
	for i, h := range header {
		norm[i] = normalizeHeader(h)
	}
	for _, cand := range candidates {
		want := normalizeHeader(cand)
		for i, have := range norm {
			if have == want {
				idx = i
				return idx
			}
		}
	}
	return idx
}

// normalizeHeader folds case, underscores and whitespace runs so header
// variants like "dataset_name" and "Dataset Name" compare equal.
func normalizeHeader(h string) (key string) {
	key = strings.ToLower(strings.TrimSpace(h))
	key = strings.ReplaceAll(key, "_", " ")
	key = strings.Join(strings.Fields(key), " ")
	return key
}

// IsSurveyName reports whether a sheet or file base name denotes the gold
// (survey) list.
func IsSurveyName(name string) (ok bool) {
	lower := strings.ToLower(strings.TrimSpace(name))
	ok = lower == "survey" || strings.HasSuffix(lower, "#survey")
	return ok
}

// LoadNameList reads a flat name list from a TSV/CSV (using column when
// given, else the first column) or a plain text file with one name per
// line.
func LoadNameList(path, column string) (names []string, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read name list: %s", path)
		return names, err
	}

	content := string(data)
	if !strings.ContainsAny(content, "\t,") {
		for _, line := range strings.Split(content, "\n") {
			if n := strings.TrimSpace(line); n != "" {
				names = append(names, n)
			}
		}
		return names, err
	}

	rows, err := parseDelimited(content)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse name list: %s", path)
		return names, err
	}
	header, body := splitHeader(rows)
	if header == nil {
		return names, err
	}

	idx := 0
	if column != "" {
		if i := pickColumn([]string{column}, header); i >= 0 {
			idx = i
		}
	}
	for _, row := range body {
		if n := strings.TrimSpace(cell(row, idx)); n != "" {
			names = append(names, n)
		}
	}

	return names, err
}

// readDelimited loads a TSV/CSV file, sniffing the delimiter from the
// content (tab wins over comma).
func readDelimited(path string) (rows [][]string, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		return rows, err
	}
	rows, err = parseDelimited(string(data))
	return rows, err
}

func parseDelimited(content string) (rows [][]string, err error) {
	delim := ','
	if strings.Contains(content, "\t") {
		delim = '\t'
	}

	r := csv.NewReader(strings.NewReader(content))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err = r.ReadAll()
	return rows, err
}

// workbookBase is the workbook name for a file: base name without extension
// and without a "#method" suffix.
func workbookBase(path string) (base string) {
	base = filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if i := strings.LastIndex(base, "#"); i >= 0 {
		base = base[:i]
	}
	return base
}

// methodSuffix extracts the method from a "#method" file-name suffix; empty
// when absent.
func methodSuffix(path string) (method string) {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if i := strings.LastIndex(base, "#"); i >= 0 {
		method = base[i+1:]
	}
	return method
}

func mentionNames(mentions []entity.Mention) (names []string) {
	for _, m := range mentions {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return names
}

func cell(row []string, idx int) (v string) {
	if idx >= 0 && idx < len(row) {
		v = row[idx]
	}
	return v
}

func isEmptyRow(row []string) (empty bool) {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	empty = true
	return empty
}
