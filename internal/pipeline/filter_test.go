package pipeline

import (
	"errors"
	"testing"

	"cannibalisation-tool/internal/model"
)

func TestRefineBounds(t *testing.T) {
	a := mustDetect(t, mustParse(t, sampleCSV), model.DefaultThresholds())

	tests := []struct {
		name    string
		bounds  model.RefinementBounds
		rows    int
		queries int
	}{
		{"no bounds", model.RefinementBounds{}, 7, 3},
		{"total impressions", model.RefinementBounds{MinTotalImpressions: 100}, 5, 2},
		{"total clicks", model.RefinementBounds{MinTotalClicks: 10}, 5, 2},
		{"impression share", model.RefinementBounds{MinImpressionsShare: 0.5}, 3, 3},
		{"click share", model.RefinementBounds{MinClicksShare: 0.9}, 1, 1},
		{"combined", model.RefinementBounds{MinTotalImpressions: 200, MinImpressionsShare: 0.05}, 2, 1},
		{"nothing left", model.RefinementBounds{MinTotalImpressions: 10000}, 0, 0},
	}

	for _, tt := range tests {
		r, err := Refine(a.Flagged, tt.bounds)
		if err != nil {
			t.Fatalf("%s: Refine error: %v", tt.name, err)
		}
		if r.RowCount != tt.rows || len(r.Rows) != tt.rows {
			t.Errorf("%s: rows = %d; want %d", tt.name, r.RowCount, tt.rows)
		}
		if r.QueryCount != tt.queries {
			t.Errorf("%s: queries = %d; want %d", tt.name, r.QueryCount, tt.queries)
		}
	}
}

func TestRefineTotalImpressionsDropsSmallQueries(t *testing.T) {
	a := mustDetect(t, mustParse(t, sampleCSV), model.DefaultThresholds())
	r, err := Refine(a.Flagged, model.RefinementBounds{MinTotalImpressions: 100})
	if err != nil {
		t.Fatalf("Refine error: %v", err)
	}
	for _, row := range r.Rows {
		if row.Query == "sandals" {
			t.Fatalf("sandals has 50 total impressions and should be excluded")
		}
	}
}

func TestRefineIsIntersectionOfSingleBounds(t *testing.T) {
	a := mustDetect(t, mustParse(t, sampleCSV), model.Thresholds{})
	single := []model.RefinementBounds{
		{MinTotalImpressions: 50},
		{MinTotalClicks: 1},
		{MinImpressionsShare: 0.05},
		{MinClicksShare: 0.1},
	}
	combined := model.RefinementBounds{
		MinTotalImpressions: 50,
		MinTotalClicks:      1,
		MinImpressionsShare: 0.05,
		MinClicksShare:      0.1,
	}

	counts := make(map[string]int)
	for _, b := range single {
		r, err := Refine(a.Flagged, b)
		if err != nil {
			t.Fatalf("Refine error: %v", err)
		}
		for _, row := range r.Rows {
			counts[row.Page]++
		}
	}

	r, err := Refine(a.Flagged, combined)
	if err != nil {
		t.Fatalf("Refine error: %v", err)
	}
	want := 0
	for _, n := range counts {
		if n == len(single) {
			want++
		}
	}
	if r.RowCount != want {
		t.Fatalf("combined rows: got %d, want %d", r.RowCount, want)
	}
	for _, row := range r.Rows {
		if counts[row.Page] != len(single) {
			t.Errorf("%s passed the combined filter but not every single bound", row.Page)
		}
	}
}

func TestRefineRejectsInvalidBounds(t *testing.T) {
	for _, b := range []model.RefinementBounds{
		{MinTotalImpressions: 42},
		{MinTotalClicks: -1},
		{MinImpressionsShare: 1.5},
		{MinClicksShare: -0.2},
	} {
		if _, err := Refine(nil, b); !errors.Is(err, ErrInvalidBound) {
			t.Errorf("Refine(%+v): got %v, want ErrInvalidBound", b, err)
		}
	}
}
