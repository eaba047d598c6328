package pipeline

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"cannibalisation-tool/internal/model"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var (
	// ErrEmptyInput is returned when the uploaded stream holds no CSV records at all.
	ErrEmptyInput = errors.New("input file is empty")
	// ErrInvalidThreshold is returned for share thresholds outside [0,1].
	ErrInvalidThreshold = errors.New("threshold must be within [0,1]")
	// ErrInvalidBound is returned for refinement bounds outside their allowed values.
	ErrInvalidBound = errors.New("invalid refinement bound")
)

// ParseError reports malformed input. Line is the 1-based CSV line, 0 when the problem is the
// file as a whole.
type ParseError struct {
	Line   int
	Column string
	Value  string
	Reason string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("malformed input")
	if e.Line > 0 {
		fmt.Fprintf(&b, ": line %d", e.Line)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, ": column %q", e.Column)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, ": value %q", e.Value)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

// validateHeader checks for required and duplicate columns. line is where the header sits in
// the file.
func validateHeader(columns []string, line int, rules model.ValidationRules) error {
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if c == "" {
			return &ParseError{Line: line, Reason: "empty column name in header"}
		}
		if seen[c] {
			return &ParseError{Line: line, Column: c, Reason: "duplicate column"}
		}
		seen[c] = true
	}

	var missing []string
	for _, field := range rules.RequiredFields {
		if !seen[field] {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &ParseError{
			Line:   line,
			Reason: fmt.Sprintf("missing required column(s): %s", strings.Join(missing, ", ")),
		}
	}
	return nil
}

// numericColumns converts every present numeric column through a gota float series and
// rejects cells that are not finite numbers. lines holds the file line of each data row.
func numericColumns(df dataframe.DataFrame, lines []int, rules model.ValidationRules) (map[string][]float64, error) {
	present := make(map[string]bool)
	for _, name := range df.Names() {
		present[name] = true
	}
	nonNegative := make(map[string]bool)
	for _, name := range rules.NonNegative {
		nonNegative[name] = true
	}

	out := make(map[string][]float64)
	for _, field := range rules.NumericFields {
		if !present[field] {
			continue
		}
		raw := df.Col(field).Records()
		trimmed := make([]string, len(raw))
		for i, v := range raw {
			trimmed[i] = strings.TrimSpace(v)
		}

		values := series.New(trimmed, series.Float, field).Float()
		for i, v := range values {
			line := lines[i]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &ParseError{Line: line, Column: field, Value: raw[i], Reason: "not a finite number"}
			}
			if nonNegative[field] && v < 0 {
				return nil, &ParseError{Line: line, Column: field, Value: raw[i], Reason: "must not be negative"}
			}
		}
		out[field] = values
	}
	return out, nil
}

// ValidateThresholds checks both share thresholds lie in [0,1].
func ValidateThresholds(th model.Thresholds) error {
	if !inUnitInterval(th.ImpressionTh) {
		return fmt.Errorf("%w: impression_th=%v", ErrInvalidThreshold, th.ImpressionTh)
	}
	if !inUnitInterval(th.ClickTh) {
		return fmt.Errorf("%w: click_th=%v", ErrInvalidThreshold, th.ClickTh)
	}
	return nil
}

// ValidateBounds checks the totals are one of the select options and the shares lie in [0,1].
func ValidateBounds(b model.RefinementBounds) error {
	if !isTotalOption(b.MinTotalImpressions) {
		return fmt.Errorf("%w: filter_tot_imp=%v is not one of %v", ErrInvalidBound, b.MinTotalImpressions, model.TotalFilterOptions)
	}
	if !isTotalOption(b.MinTotalClicks) {
		return fmt.Errorf("%w: filter_tot_cli=%v is not one of %v", ErrInvalidBound, b.MinTotalClicks, model.TotalFilterOptions)
	}
	if !inUnitInterval(b.MinImpressionsShare) {
		return fmt.Errorf("%w: filter_imp_share=%v must be within [0,1]", ErrInvalidBound, b.MinImpressionsShare)
	}
	if !inUnitInterval(b.MinClicksShare) {
		return fmt.Errorf("%w: filter_imp_click=%v must be within [0,1]", ErrInvalidBound, b.MinClicksShare)
	}
	return nil
}

func inUnitInterval(v float64) bool {
	return v >= 0 && v <= 1
}

func isTotalOption(v float64) bool {
	for _, opt := range model.TotalFilterOptions {
		if v == opt {
			return true
		}
	}
	return false
}
