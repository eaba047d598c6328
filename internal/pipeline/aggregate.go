package pipeline

import (
	"sort"

	"cannibalisation-tool/internal/model"
)

// AggregateQueries sums impressions and clicks per distinct query. The totals depend only on
// the multiset of rows of each query.
func AggregateQueries(rows []model.Row) map[string]model.QueryAggregate {
	aggs := make(map[string]model.QueryAggregate)
	for _, row := range rows {
		agg := aggs[row.Query]
		agg.Query = row.Query
		agg.TotalImpressions += row.Impressions
		agg.TotalClicks += row.Clicks
		agg.RowCount++
		aggs[row.Query] = agg
	}
	return aggs
}

// SummariseQueries lists the queries present in rows in first-appearance order. Totals are
// the full query totals carried on the rows; RowCount counts only the rows given.
func SummariseQueries(rows []model.AnnotatedRow) []model.QueryAggregate {
	index := make(map[string]int)
	var out []model.QueryAggregate
	for _, row := range rows {
		i, ok := index[row.Query]
		if !ok {
			i = len(out)
			index[row.Query] = i
			out = append(out, model.QueryAggregate{
				Query:            row.Query,
				TotalImpressions: row.TotalImpressions,
				TotalClicks:      row.TotalClicks,
			})
		}
		out[i].RowCount++
	}
	return out
}

// SortAggregates orders query summaries by "total_impressions", "total_clicks", "row_count"
// or "query". Ties keep their input order.
func SortAggregates(aggs []model.QueryAggregate, sortBy string, ascending bool) []model.QueryAggregate {
	less := func(a, b model.QueryAggregate) bool {
		switch sortBy {
		case model.ColTotalImpressions:
			return a.TotalImpressions < b.TotalImpressions
		case model.ColTotalClicks:
			return a.TotalClicks < b.TotalClicks
		case "row_count":
			return a.RowCount < b.RowCount
		default:
			return a.Query < b.Query
		}
	}

	sort.SliceStable(aggs, func(i, j int) bool {
		if ascending {
			return less(aggs[i], aggs[j])
		}
		return less(aggs[j], aggs[i])
	})
	return aggs
}
