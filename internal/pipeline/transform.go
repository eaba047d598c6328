package pipeline

import (
	"cannibalisation-tool/internal/model"
)

// ComputeShares joins each row with its query totals and computes both shares.
// A share is 0 when its denominator is 0.
func ComputeShares(rows []model.Row, aggs map[string]model.QueryAggregate) []model.AnnotatedRow {
	out := make([]model.AnnotatedRow, len(rows))
	for i, row := range rows {
		agg := aggs[row.Query]
		out[i] = model.AnnotatedRow{
			Row:              row,
			TotalImpressions: agg.TotalImpressions,
			TotalClicks:      agg.TotalClicks,
			ImpressionsShare: share(row.Impressions, agg.TotalImpressions),
			ClicksShare:      share(row.Clicks, agg.TotalClicks),
		}
	}
	return out
}

func share(part, total float64) float64 {
	if total > 0 {
		return part / total
	}
	return 0
}

// FlagQueries counts, per query, the rows at or above each threshold. A query is flagged on a
// metric when more than one of its rows qualifies.
func FlagQueries(rows []model.AnnotatedRow, th model.Thresholds) map[string]model.QueryFlags {
	type counts struct{ impr, clicks int }
	per := make(map[string]counts)
	for _, row := range rows {
		c := per[row.Query]
		if row.ImpressionsShare >= th.ImpressionTh {
			c.impr++
		}
		if row.ClicksShare >= th.ClickTh {
			c.clicks++
		}
		per[row.Query] = c
	}

	flags := make(map[string]model.QueryFlags, len(per))
	for query, c := range per {
		flags[query] = model.QueryFlags{
			MultiImpr:   c.impr > 1,
			MultiClicks: c.clicks > 1,
		}
	}
	return flags
}

// ApplyFlags copies each query's flags onto every one of its rows.
func ApplyFlags(rows []model.AnnotatedRow, flags map[string]model.QueryFlags) {
	for i := range rows {
		f := flags[rows[i].Query]
		rows[i].MultiImpr = f.MultiImpr
		rows[i].MultiClicks = f.MultiClicks
	}
}

// SelectCannibalised keeps every row whose query is flagged on either metric, including rows
// that are themselves below threshold, in input order.
func SelectCannibalised(rows []model.AnnotatedRow) []model.AnnotatedRow {
	out := make([]model.AnnotatedRow, 0)
	for _, row := range rows {
		if row.MultiImpr || row.MultiClicks {
			out = append(out, row)
		}
	}
	return out
}

// Detect runs aggregation, share computation and flagging over table.
func Detect(table *model.Table, th model.Thresholds) (*model.Analysis, error) {
	if err := ValidateThresholds(th); err != nil {
		return nil, err
	}

	aggs := AggregateQueries(table.Rows)
	annotated := ComputeShares(table.Rows, aggs)
	flags := FlagQueries(annotated, th)
	ApplyFlags(annotated, flags)
	flagged := SelectCannibalised(annotated)

	flaggedQueries := 0
	for _, f := range flags {
		if f.Cannibalised() {
			flaggedQueries++
		}
	}

	return &model.Analysis{
		Columns:        table.Columns,
		Thresholds:     th,
		Rows:           annotated,
		Flagged:        flagged,
		TotalRows:      len(annotated),
		TotalQueries:   len(aggs),
		FlaggedRows:    len(flagged),
		FlaggedQueries: flaggedQueries,
	}, nil
}
