package pipeline

import (
	"bytes"
	"time"

	"cannibalisation-tool/internal/model"
	"cannibalisation-tool/pkg/utils"
)

// Runner ties ingestion and detection together behind the analysis cache.
type Runner struct {
	cache  *Cache
	logger *utils.Logger
}

func NewRunner(cacheSize int, logger *utils.Logger) (*Runner, error) {
	cache, err := NewCache(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Runner{cache: cache, logger: logger}, nil
}

// Run parses content and detects cannibalisation without touching the cache.
func Run(content []byte, th model.Thresholds) (*model.Analysis, error) {
	return run(content, utils.ContentHash(content), th)
}

func run(content []byte, hash string, th model.Thresholds) (*model.Analysis, error) {
	if err := ValidateThresholds(th); err != nil {
		return nil, err
	}
	table, err := ParseCSV(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	analysis, err := Detect(table, th)
	if err != nil {
		return nil, err
	}
	analysis.ContentHash = hash
	return analysis, nil
}

// Analyse returns the analysis of content under th, reusing a cached result for the same
// content and thresholds. The bool reports a cache hit.
func (r *Runner) Analyse(content []byte, th model.Thresholds) (*model.Analysis, bool, error) {
	if err := ValidateThresholds(th); err != nil {
		return nil, false, err
	}

	hash := utils.ContentHash(content)
	if cached, ok := r.cache.Get(hash, th); ok {
		r.logger.Debug("♻️ Analysis cache hit for %.12s (impression_th=%v click_th=%v)", hash, th.ImpressionTh, th.ClickTh)
		return cached, true, nil
	}

	start := time.Now()
	analysis, err := run(content, hash, th)
	if err != nil {
		r.logger.Warn("❌ Analysis failed for %.12s: %v", hash, err)
		return nil, false, err
	}
	r.cache.Add(analysis)

	r.logger.Info("📊 Analysed %d rows / %d queries: %d flagged rows across %d queries in %v",
		analysis.TotalRows, analysis.TotalQueries, analysis.FlaggedRows, analysis.FlaggedQueries, time.Since(start))
	return analysis, false, nil
}

// CacheLen reports how many analyses are memoised.
func (r *Runner) CacheLen() int {
	return r.cache.Len()
}
