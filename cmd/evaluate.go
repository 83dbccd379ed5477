package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/scholarbench/mentionbench/pkg/config"
	"github.com/scholarbench/mentionbench/pkg/engine"
	"github.com/scholarbench/mentionbench/pkg/ingest"
	"github.com/scholarbench/mentionbench/pkg/metrics"
	"github.com/scholarbench/mentionbench/pkg/report"
)

//nolint:gochecknoglobals // Cobra boilerplate
var fuzzyThreshold float64

//nolint:gochecknoglobals // Cobra boilerplate
var outputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var checkURLs bool

//nolint:gochecknoglobals // Cobra boilerplate
var goldFile string

//nolint:gochecknoglobals // Cobra boilerplate
var baselineFile string

//nolint:gochecknoglobals // Cobra boilerplate
var evaluateCmd = &cobra.Command{
	Use:   "evaluate <input-dir>",
	Short: "Evaluate method workbooks against their gold lists",
	Long: `Evaluate every workbook in a directory.

Excel workbooks contribute one method table per sheet, with a "survey" sheet
as the gold list. TSV/CSV files use a "#method" suffix on the base name; a
gold.csv in the directory (or --gold-file) supplies gold for all of them.

Example:
  mentionbench evaluate ./rq1_workbooks
  mentionbench evaluate ./rq1_workbooks --threshold 0.85 --check-urls
  mentionbench evaluate ./exports --gold-file survey.csv --baseline-file datacite.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().Float64Var(&fuzzyThreshold, "threshold", 0, "Fuzzy similarity threshold in (0,1] (default from config)")
	evaluateCmd.Flags().StringVar(&outputDir, "output-dir", "", "Report output directory (default from config)")
	evaluateCmd.Flags().BoolVar(&checkURLs, "check-urls", false, "Probe dataset URLs over HTTP to confirm they work")
	evaluateCmd.Flags().StringVar(&goldFile, "gold-file", "", "Gold name list applied to every workbook (overrides survey sheets)")
	evaluateCmd.Flags().StringVar(&baselineFile, "baseline-file", "", "Baseline name list for novelty scoring")
}

func runEvaluate(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	inputDir := args[0]

	var cfg config.Config
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	applyEvaluateFlags(&cfg)
	err = cfg.Validate()
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	var baseline []string
	baseline, err = loadBaseline(cfg)
	if err != nil {
		return fmt.Errorf("failed to load baseline: %w", err)
	}

	var workbooks []engine.Workbook
	workbooks, err = ingest.LoadDir(inputDir, ingest.OptionsFromConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to load input directory: %w", err)
	}
	if len(workbooks) == 0 {
		return fmt.Errorf("no workbooks found in %s", inputDir)
	}

	if getVerbose() {
		fmt.Printf("Loaded %d workbook(s) from %s\n", len(workbooks), inputDir)
		for _, wb := range workbooks {
			if wb.Err != nil {
				fmt.Printf("  %s: %v\n", wb.Name, wb.Err)
				continue
			}
			fmt.Printf("  %s: %d method(s), %d gold name(s)\n", wb.Name, len(wb.Methods), len(wb.Gold))
		}
	}

	var eng *engine.Engine
	eng, err = engine.New(cfg, baseline)
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}

	var rows []metrics.Row
	var aggs []metrics.Aggregate
	rows, aggs, err = eng.Run(ctx, workbooks)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	err = writeReports(cfg.OutputDir, inputDir, rows, aggs)
	if err != nil {
		return fmt.Errorf("failed to write reports: %w", err)
	}

	return err
}

// applyEvaluateFlags lets command-line flags override the loaded config.
func applyEvaluateFlags(cfg *config.Config) {
	if fuzzyThreshold != 0 {
		cfg.FuzzyThreshold = fuzzyThreshold
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if checkURLs {
		cfg.CheckURLs = true
	}
	if goldFile != "" {
		cfg.GoldFile = goldFile
	}
}

// loadBaseline resolves the novelty baseline: an explicit --baseline-file
// beats the baseline paths from the config, which are concatenated.
func loadBaseline(cfg config.Config) (names []string, err error) {
	if baselineFile != "" {
		names, err = ingest.LoadNameList(baselineFile, "")
		return names, err
	}

	for _, path := range cfg.Baseline {
		var part []string
		part, err = ingest.LoadNameList(path, "")
		if err != nil {
			return names, err
		}
		names = append(names, part...)
	}

	return names, err
}

func writeReports(outDir, inputDir string, rows []metrics.Row, aggs []metrics.Aggregate) (err error) {
	err = os.MkdirAll(outDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outDir)
		return err
	}

	base := filepath.Base(filepath.Clean(inputDir))
	base = strings.TrimSuffix(base, filepath.Ext(base))

	perFile := filepath.Join(outDir, base+"_per_file.tsv")
	err = report.WritePerFile(perFile, rows)
	if err != nil {
		return err
	}

	aggregate := filepath.Join(outDir, base+"_aggregate.tsv")
	err = report.WriteAggregate(aggregate, aggs)
	if err != nil {
		return err
	}

	fmt.Printf("Wrote: %s\n", perFile)
	fmt.Printf("Wrote: %s\n", aggregate)

	return err
}
