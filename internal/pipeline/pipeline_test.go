package pipeline

import (
	"errors"
	"math"
	"strings"
	"testing"

	"cannibalisation-tool/internal/model"
	"cannibalisation-tool/pkg/utils"
)

const sampleCSV = `query,page,clicks,impressions,position,ctr
shoes,https://a.com/shoes,40,80,1.2,0.5
shoes,https://a.com/running-shoes,10,20,3.4,0.5
socks,https://a.com/socks,5,100,2.0,0.05
hats,https://a.com/hats,0,0,9.1,0
hats,https://a.com/caps,0,0,8.0,0
boots,https://a.com/boots,9,180,1.0,0.05
boots,https://a.com/winter-boots,1,18,4.0,0.0556
boots,https://a.com/boots-sale,0,2,7.0,0
sandals,https://a.com/sandals,3,30,2.5,0.1
sandals,https://a.com/flip-flops,2,20,5.5,0.1
`

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

func mustParse(t *testing.T, csv string) *model.Table {
	t.Helper()
	table, err := ParseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseCSV error: %v", err)
	}
	return table
}

func mustDetect(t *testing.T, table *model.Table, th model.Thresholds) *model.Analysis {
	t.Helper()
	analysis, err := Detect(table, th)
	if err != nil {
		t.Fatalf("Detect error: %v", err)
	}
	return analysis
}

func TestRunnerCachesOnContentAndThresholds(t *testing.T) {
	runner, err := NewRunner(8, utils.NewDiscardLogger())
	if err != nil {
		t.Fatalf("NewRunner error: %v", err)
	}
	content := []byte(sampleCSV)

	first, hit, err := runner.Analyse(content, model.DefaultThresholds())
	if err != nil {
		t.Fatalf("Analyse error: %v", err)
	}
	if hit {
		t.Fatal("first analysis should not be a cache hit")
	}

	second, hit, err := runner.Analyse(content, model.DefaultThresholds())
	if err != nil {
		t.Fatalf("Analyse error: %v", err)
	}
	if !hit || second != first {
		t.Fatal("same content and thresholds should reuse the cached analysis")
	}

	strict, hit, err := runner.Analyse(content, model.Thresholds{ImpressionTh: 0.5, ClickTh: 0.5})
	if err != nil {
		t.Fatalf("Analyse error: %v", err)
	}
	if hit {
		t.Fatal("changing thresholds must not return a cached analysis")
	}
	if strict.FlaggedRows >= first.FlaggedRows {
		t.Errorf("stricter thresholds should flag fewer rows: got %d, default %d", strict.FlaggedRows, first.FlaggedRows)
	}
	if runner.CacheLen() != 2 {
		t.Errorf("CacheLen: got %d, want 2", runner.CacheLen())
	}
}

func TestRunnerDistinguishesContent(t *testing.T) {
	runner, err := NewRunner(8, utils.NewDiscardLogger())
	if err != nil {
		t.Fatalf("NewRunner error: %v", err)
	}

	a, _, err := runner.Analyse([]byte(sampleCSV), model.DefaultThresholds())
	if err != nil {
		t.Fatalf("Analyse error: %v", err)
	}
	other := sampleCSV + "caps,https://a.com/caps,1,1,1,1\n"
	b, hit, err := runner.Analyse([]byte(other), model.DefaultThresholds())
	if err != nil {
		t.Fatalf("Analyse error: %v", err)
	}
	if hit {
		t.Fatal("different content must not hit the cache")
	}
	if a.ContentHash == b.ContentHash {
		t.Fatal("different content should hash differently")
	}
	if b.TotalRows != a.TotalRows+1 {
		t.Errorf("TotalRows: got %d, want %d", b.TotalRows, a.TotalRows+1)
	}
}

func TestRunnerRejectsInvalidThresholdsBeforeParsing(t *testing.T) {
	runner, err := NewRunner(8, utils.NewDiscardLogger())
	if err != nil {
		t.Fatalf("NewRunner error: %v", err)
	}
	_, _, err = runner.Analyse([]byte("not,a,csv"), model.Thresholds{ImpressionTh: -0.1, ClickTh: 0.1})
	if !errors.Is(err, ErrInvalidThreshold) {
		t.Fatalf("expected ErrInvalidThreshold, got %v", err)
	}
}

func TestRunMatchesDetect(t *testing.T) {
	analysis, err := Run([]byte(sampleCSV), model.DefaultThresholds())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if analysis.ContentHash != utils.ContentHash([]byte(sampleCSV)) {
		t.Errorf("ContentHash not set from content")
	}
	if analysis.TotalRows != 10 || analysis.TotalQueries != 5 {
		t.Errorf("totals: got %d rows / %d queries, want 10 / 5", analysis.TotalRows, analysis.TotalQueries)
	}
	if analysis.FlaggedRows != 7 || analysis.FlaggedQueries != 3 {
		t.Errorf("flagged: got %d rows / %d queries, want 7 / 3", analysis.FlaggedRows, analysis.FlaggedQueries)
	}
}
