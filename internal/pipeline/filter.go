package pipeline

import (
	"cannibalisation-tool/internal/model"
)

// Refine keeps the flagged rows that satisfy all four bounds and counts the distinct queries
// among them. An empty result is not an error.
func Refine(flagged []model.AnnotatedRow, b model.RefinementBounds) (*model.Refinement, error) {
	if err := ValidateBounds(b); err != nil {
		return nil, err
	}

	rows := make([]model.AnnotatedRow, 0)
	queries := make(map[string]struct{})
	for _, row := range flagged {
		if !withinBounds(row, b) {
			continue
		}
		rows = append(rows, row)
		queries[row.Query] = struct{}{}
	}

	return &model.Refinement{
		Bounds:     b,
		Rows:       rows,
		RowCount:   len(rows),
		QueryCount: len(queries),
	}, nil
}

func withinBounds(row model.AnnotatedRow, b model.RefinementBounds) bool {
	return row.TotalImpressions >= b.MinTotalImpressions &&
		row.TotalClicks >= b.MinTotalClicks &&
		row.ImpressionsShare >= b.MinImpressionsShare &&
		row.ClicksShare >= b.MinClicksShare
}
