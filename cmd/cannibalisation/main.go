package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"cannibalisation-tool/internal/config"
	"cannibalisation-tool/internal/model"
	"cannibalisation-tool/internal/pipeline"
	"cannibalisation-tool/pkg/utils"

	"github.com/google/uuid"
	"github.com/skratchdot/open-golang/open"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return 1
	}
	logger := utils.NewLogger(cfg.App.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Error("❌ Invalid configuration: %v", err)
		return 1
	}

	fs := flag.NewFlagSet("cannibalisation", flag.ContinueOnError)
	input := fs.String("input", "", "search console CSV export (required)")
	impressionTh := fs.Float64("impression-th", cfg.Detect.ImpressionTh, "impression share threshold in [0,1]")
	clickTh := fs.Float64("click-th", cfg.Detect.ClickTh, "click share threshold in [0,1]")
	minTotalImpr := fs.Float64("min-total-impressions", 0, "minimum total impressions per query")
	minTotalClicks := fs.Float64("min-total-clicks", 0, "minimum total clicks per query")
	minImprShare := fs.Float64("min-impressions-share", 0, "minimum impressions share of a row")
	minClicksShare := fs.Float64("min-clicks-share", 0, "minimum clicks share of a row")
	outDir := fs.String("out-dir", cfg.Export.OutputDir, "directory for export runs")
	openResult := fs.Bool("open", false, "open output.csv when done")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *input == "" {
		fmt.Fprintln(os.Stderr, "missing -input")
		fs.Usage()
		return 2
	}

	content, err := os.ReadFile(*input)
	if err != nil {
		logger.Error("❌ Failed to read %s: %v", *input, err)
		return 1
	}

	th := model.Thresholds{ImpressionTh: *impressionTh, ClickTh: *clickTh}
	bounds := model.RefinementBounds{
		MinTotalImpressions: *minTotalImpr,
		MinTotalClicks:      *minTotalClicks,
		MinImpressionsShare: *minImprShare,
		MinClicksShare:      *minClicksShare,
	}
	if err := pipeline.ValidateBounds(bounds); err != nil {
		logger.Error("❌ %v", err)
		return 2
	}

	analysis, err := pipeline.Run(content, th)
	if err != nil {
		var parseErr *pipeline.ParseError
		if errors.As(err, &parseErr) || errors.Is(err, pipeline.ErrEmptyInput) {
			logger.Error("❌ %s: %v", *input, err)
			return 1
		}
		logger.Error("❌ %v", err)
		return 2
	}
	logger.Info("📊 %d rows / %d queries read, %d rows across %d queries flagged",
		analysis.TotalRows, analysis.TotalQueries, analysis.FlaggedRows, analysis.FlaggedQueries)

	refinement, err := pipeline.Refine(analysis.Flagged, bounds)
	if err != nil {
		logger.Error("❌ %v", err)
		return 2
	}
	fmt.Println(refinement.Summary())

	em := pipeline.NewExportManager(uuid.New().String(), utils.NewOutputManager(*outDir), logger)
	results := em.ExportAll(analysis, refinement)
	for _, res := range results {
		if !res.Success {
			return 1
		}
	}

	if *openResult {
		if err := open.Start(results[1].Path); err != nil {
			logger.Warn("⚠️ Could not open %s: %v", results[1].Path, err)
		}
	}
	return 0
}
