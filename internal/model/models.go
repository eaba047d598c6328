package model

import "fmt"

// Column names the detector knows about.
const (
	ColQuery       = "query"
	ColPage        = "page"
	ColClicks      = "clicks"
	ColImpressions = "impressions"
	ColPosition    = "position"
	ColCTR         = "ctr"

	ColTotalImpressions = "total_impressions"
	ColTotalClicks      = "total_clicks"
	ColImpressionsShare = "impressions_share"
	ColClicksShare      = "clicks_share"
	ColMultiImpr        = "multi_impr"
	ColMultiClicks      = "multi_clicks"
)

// DerivedColumns are appended, in this order, after the input columns on export.
var DerivedColumns = []string{
	ColTotalImpressions,
	ColTotalClicks,
	ColImpressionsShare,
	ColClicksShare,
	ColMultiImpr,
	ColMultiClicks,
}

// Row is one (query, page) performance record as read from the input file.
type Row struct {
	Query       string   `json:"query"`
	Page        string   `json:"page"`
	Clicks      float64  `json:"clicks"`
	Impressions float64  `json:"impressions"`
	Position    float64  `json:"position"`
	CTR         float64  `json:"ctr"`
	Values      []string `json:"-"` // raw cells, same order as Table.Columns
}

// Table is the ingested file: cleaned header names plus rows in input order.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// QueryAggregate holds the per-query totals.
type QueryAggregate struct {
	Query            string  `json:"query"`
	TotalImpressions float64 `json:"total_impressions"`
	TotalClicks      float64 `json:"total_clicks"`
	RowCount         int     `json:"row_count"`
}

// QueryFlags are query-level facts shared by every row of the query.
type QueryFlags struct {
	MultiImpr   bool `json:"multi_impr"`
	MultiClicks bool `json:"multi_clicks"`
}

// Cannibalised reports whether the query is selected for the flagged table.
func (f QueryFlags) Cannibalised() bool {
	return f.MultiImpr || f.MultiClicks
}

// AnnotatedRow is a Row extended with its query totals, shares and flags.
type AnnotatedRow struct {
	Row
	TotalImpressions float64 `json:"total_impressions"`
	TotalClicks      float64 `json:"total_clicks"`
	ImpressionsShare float64 `json:"impressions_share"`
	ClicksShare      float64 `json:"clicks_share"`
	MultiImpr        bool    `json:"multi_impr"`
	MultiClicks      bool    `json:"multi_clicks"`
}

// Thresholds are the share fractions at or above which a page counts as significant.
type Thresholds struct {
	ImpressionTh float64 `json:"impression_th"`
	ClickTh      float64 `json:"click_th"`
}

// DefaultThresholds matches the slider defaults of the interactive page.
func DefaultThresholds() Thresholds {
	return Thresholds{ImpressionTh: 0.1, ClickTh: 0.1}
}

// TotalFilterOptions are the allowed values of the total impressions/clicks filters.
var TotalFilterOptions = []float64{0, 1, 10, 50, 100, 200, 300, 400, 500, 1000, 10000}

// RefinementBounds are the four lower bounds of the interactive filter.
type RefinementBounds struct {
	MinTotalImpressions float64 `json:"filter_tot_imp"`
	MinTotalClicks      float64 `json:"filter_tot_cli"`
	MinImpressionsShare float64 `json:"filter_imp_share"`
	MinClicksShare      float64 `json:"filter_imp_click"`
}

// Analysis is the result of running detection over one table with one set of thresholds.
// Values handed out by the cache are shared and must not be modified.
type Analysis struct {
	ContentHash    string         `json:"content_hash"`
	Columns        []string       `json:"columns"`
	Thresholds     Thresholds     `json:"thresholds"`
	Rows           []AnnotatedRow `json:"-"`
	Flagged        []AnnotatedRow `json:"-"`
	TotalRows      int            `json:"total_rows"`
	TotalQueries   int            `json:"total_queries"`
	FlaggedRows    int            `json:"flagged_rows"`
	FlaggedQueries int            `json:"flagged_queries"`
}

// Refinement is the flagged table narrowed by RefinementBounds.
type Refinement struct {
	Bounds     RefinementBounds `json:"bounds"`
	Rows       []AnnotatedRow   `json:"rows"`
	RowCount   int              `json:"row_count"`
	QueryCount int              `json:"query_count"`
}

// Summary is the sentence shown above the refined table.
func (r *Refinement) Summary() string {
	return fmt.Sprintf("There are %d rows in this current filtered dataframe and %d unique queries.", r.RowCount, r.QueryCount)
}
