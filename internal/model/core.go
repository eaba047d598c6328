package model

// ValidationRules defines what an input table must contain
type ValidationRules struct {
	RequiredFields []string `json:"requiredFields"` // columns that must be present
	NumericFields  []string `json:"numericFields"`  // columns whose cells must be finite numbers
	NonNegative    []string `json:"nonNegative"`    // numeric columns that may not go below zero
}

// DefaultValidationRules describes a search console query/page export
func DefaultValidationRules() ValidationRules {
	return ValidationRules{
		RequiredFields: []string{ColQuery, ColPage, ColClicks, ColImpressions},
		NumericFields:  []string{ColClicks, ColImpressions, ColPosition, ColCTR},
		NonNegative:    []string{ColClicks, ColImpressions},
	}
}

// AnalysisSpec is the full set of user-adjustable parameters for one interaction
type AnalysisSpec struct {
	Thresholds Thresholds       `json:"thresholds"`
	Bounds     RefinementBounds `json:"bounds"`
}
