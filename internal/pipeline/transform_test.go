package pipeline

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"cannibalisation-tool/internal/model"
)

func flaggedQuerySet(a *model.Analysis) map[string]bool {
	out := make(map[string]bool)
	for _, row := range a.Flagged {
		out[row.Query] = true
	}
	return out
}

func TestDetectFlagsSplitQuery(t *testing.T) {
	a := mustDetect(t, mustParse(t, sampleCSV), model.DefaultThresholds())

	shoes := a.Rows[0]
	if shoes.TotalImpressions != 100 || shoes.TotalClicks != 50 {
		t.Fatalf("shoes totals: got %v/%v, want 100/50", shoes.TotalImpressions, shoes.TotalClicks)
	}
	if !almostEqual(shoes.ImpressionsShare, 0.8) || !almostEqual(a.Rows[1].ImpressionsShare, 0.2) {
		t.Errorf("shoes impression shares: got %v, %v", shoes.ImpressionsShare, a.Rows[1].ImpressionsShare)
	}
	if !shoes.MultiImpr || !shoes.MultiClicks {
		t.Errorf("shoes should be flagged on both metrics, got %+v", shoes)
	}

	socks := a.Rows[2]
	if !almostEqual(socks.ImpressionsShare, 1) || socks.MultiImpr || socks.MultiClicks {
		t.Errorf("single-page query must not be flagged, got %+v", socks)
	}

	flagged := flaggedQuerySet(a)
	for _, q := range []string{"shoes", "boots", "sandals"} {
		if !flagged[q] {
			t.Errorf("expected %s to be flagged", q)
		}
	}
	for _, q := range []string{"socks", "hats"} {
		if flagged[q] {
			t.Errorf("did not expect %s to be flagged", q)
		}
	}
}

func TestDetectZeroTotalsGiveZeroShares(t *testing.T) {
	a := mustDetect(t, mustParse(t, sampleCSV), model.DefaultThresholds())

	for _, row := range a.Rows[3:5] {
		if row.Query != "hats" {
			t.Fatalf("fixture order changed: got %q", row.Query)
		}
		if row.ImpressionsShare != 0 || row.ClicksShare != 0 {
			t.Errorf("zero totals should give zero shares, got %v/%v", row.ImpressionsShare, row.ClicksShare)
		}
		if row.MultiImpr || row.MultiClicks {
			t.Errorf("hats should not be flagged at 0.1, got %+v", row)
		}
	}
}

func TestDetectZeroThresholdFlagsEveryMultiRowQuery(t *testing.T) {
	a := mustDetect(t, mustParse(t, sampleCSV), model.Thresholds{})
	flagged := flaggedQuerySet(a)
	if !flagged["hats"] {
		t.Error("with threshold 0 a zero-share query with two rows qualifies")
	}
	if flagged["socks"] {
		t.Error("a single-row query can never be flagged")
	}
}

func TestDetectKeepsBelowThresholdRowsOfFlaggedQuery(t *testing.T) {
	a := mustDetect(t, mustParse(t, sampleCSV), model.DefaultThresholds())

	var boots []model.AnnotatedRow
	for _, row := range a.Flagged {
		if row.Query == "boots" {
			boots = append(boots, row)
		}
	}
	if len(boots) != 3 {
		t.Fatalf("flagged boots rows: got %d, want 3", len(boots))
	}
	// 9/10 and 1/10 clear the click threshold, 180/200 is the only impression share that does
	if boots[0].MultiImpr || !boots[0].MultiClicks {
		t.Errorf("boots flags: got multi_impr=%v multi_clicks=%v", boots[0].MultiImpr, boots[0].MultiClicks)
	}
	if boots[2].Page != "https://a.com/boots-sale" || boots[2].ClicksShare != 0 {
		t.Errorf("below-threshold row should be kept, got %+v", boots[2])
	}
}

func TestDetectPreservesInputOrder(t *testing.T) {
	a := mustDetect(t, mustParse(t, sampleCSV), model.DefaultThresholds())

	want := []string{
		"https://a.com/shoes", "https://a.com/running-shoes",
		"https://a.com/boots", "https://a.com/winter-boots", "https://a.com/boots-sale",
		"https://a.com/sandals", "https://a.com/flip-flops",
	}
	if len(a.Flagged) != len(want) {
		t.Fatalf("flagged rows: got %d, want %d", len(a.Flagged), len(want))
	}
	for i, page := range want {
		if a.Flagged[i].Page != page {
			t.Errorf("row %d: got %s, want %s", i, a.Flagged[i].Page, page)
		}
	}
}

func TestDetectRejectsInvalidThresholds(t *testing.T) {
	table := mustParse(t, sampleCSV)
	for _, th := range []model.Thresholds{
		{ImpressionTh: -0.01, ClickTh: 0.1},
		{ImpressionTh: 0.1, ClickTh: 1.01},
	} {
		if _, err := Detect(table, th); !errors.Is(err, ErrInvalidThreshold) {
			t.Errorf("Detect(%+v): got %v, want ErrInvalidThreshold", th, err)
		}
	}
}

func TestDetectEmptyTable(t *testing.T) {
	a := mustDetect(t, mustParse(t, "query,page,clicks,impressions\n"), model.DefaultThresholds())
	if a.TotalRows != 0 || a.FlaggedRows != 0 || len(a.Flagged) != 0 {
		t.Errorf("empty table should produce an empty analysis, got %+v", a)
	}
}

// randomTable builds a table of n rows spread over a handful of queries.
func randomTable(rng *rand.Rand, n int) *model.Table {
	table := &model.Table{Columns: []string{"query", "page", "clicks", "impressions"}}
	for i := 0; i < n; i++ {
		q := fmt.Sprintf("q%d", rng.Intn(8))
		impr := float64(rng.Intn(50))
		clicks := float64(rng.Intn(int(impr) + 1))
		table.Rows = append(table.Rows, model.Row{
			Query:       q,
			Page:        fmt.Sprintf("/p%d", i),
			Clicks:      clicks,
			Impressions: impr,
		})
	}
	return table
}

func TestDetectInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for iter := 0; iter < 50; iter++ {
		table := randomTable(rng, 1+rng.Intn(40))
		th := model.Thresholds{ImpressionTh: rng.Float64(), ClickTh: rng.Float64()}
		a := mustDetect(t, table, th)

		flags := make(map[string]model.QueryFlags)
		shareSums := make(map[string]float64)
		for _, row := range a.Rows {
			if row.ImpressionsShare < 0 || row.ImpressionsShare > 1 || row.ClicksShare < 0 || row.ClicksShare > 1 {
				t.Fatalf("share out of range: %+v", row)
			}
			f := model.QueryFlags{MultiImpr: row.MultiImpr, MultiClicks: row.MultiClicks}
			if prev, ok := flags[row.Query]; ok && prev != f {
				t.Fatalf("flags differ between rows of %s", row.Query)
			}
			flags[row.Query] = f
			shareSums[row.Query] += row.ImpressionsShare
		}
		aggs := AggregateQueries(table.Rows)
		for q, sum := range shareSums {
			if aggs[q].TotalImpressions > 0 && !almostEqual(sum, 1) {
				t.Fatalf("impression shares of %s sum to %v", q, sum)
			}
		}

		// every row of a flagged query is present, and nothing else
		wantRows := 0
		for _, row := range a.Rows {
			if flags[row.Query].Cannibalised() {
				wantRows++
			}
		}
		if wantRows != a.FlaggedRows {
			t.Fatalf("flagged rows: got %d, want %d", a.FlaggedRows, wantRows)
		}
	}
}

func TestDetectFlaggedSetShrinksAsThresholdRises(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	table := randomTable(rng, 60)

	prev := flaggedQuerySet(mustDetect(t, table, model.Thresholds{}))
	for step := 1; step <= 20; step++ {
		th := float64(step) / 20
		cur := flaggedQuerySet(mustDetect(t, table, model.Thresholds{ImpressionTh: th, ClickTh: th}))
		for q := range cur {
			if !prev[q] {
				t.Fatalf("query %s flagged at %v but not at a lower threshold", q, th)
			}
		}
		prev = cur
	}
}

func TestAggregateQueriesIgnoresRowOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	table := randomTable(rng, 30)
	want := AggregateQueries(table.Rows)

	shuffled := append([]model.Row(nil), table.Rows...)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	got := AggregateQueries(shuffled)

	for q, agg := range want {
		if got[q] != agg {
			t.Errorf("%s: got %+v, want %+v", q, got[q], agg)
		}
	}
}

func TestSummariseAndSortQueries(t *testing.T) {
	a := mustDetect(t, mustParse(t, sampleCSV), model.DefaultThresholds())
	summary := SummariseQueries(a.Flagged)

	if len(summary) != 3 || summary[0].Query != "shoes" || summary[1].Query != "boots" {
		t.Fatalf("summary order: got %+v", summary)
	}
	if summary[1].RowCount != 3 {
		t.Errorf("boots RowCount: got %d, want 3", summary[1].RowCount)
	}

	SortAggregates(summary, model.ColTotalImpressions, false)
	if summary[0].Query != "boots" || summary[2].Query != "sandals" {
		t.Errorf("descending by impressions: got %s..%s", summary[0].Query, summary[2].Query)
	}
	SortAggregates(summary, "query", true)
	if summary[0].Query != "boots" || summary[1].Query != "sandals" || summary[2].Query != "shoes" {
		t.Errorf("ascending by query: got %+v", summary)
	}
}
