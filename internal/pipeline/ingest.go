package pipeline

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"cannibalisation-tool/internal/model"
	"cannibalisation-tool/pkg/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV reads a search console query/page export into a Table.
func ParseCSV(r io.Reader) (*model.Table, error) {
	return ParseCSVWithRules(r, model.DefaultValidationRules())
}

// ParseCSVWithRules is ParseCSV with caller-supplied column rules.
func ParseCSVWithRules(r io.Reader, rules model.ValidationRules) (*model.Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyInput
	}

	csvReader := csv.NewReader(bytes.NewReader(raw))
	csvReader.LazyQuotes = true
	// blank lines are skipped and quoted cells may span lines, so record where each row starts
	var records [][]string
	var lines []int
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &ParseError{Line: csvErr.Line, Reason: csvErr.Err.Error()}
			}
			return nil, fmt.Errorf("CSV read error: %w", err)
		}
		line, _ := csvReader.FieldPos(0)
		records = append(records, record)
		lines = append(lines, line)
	}
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	records = dropDerivedColumns(records)
	columns := records[0]
	if err := validateHeader(columns, lines[0], rules); err != nil {
		return nil, err
	}

	table := &model.Table{Columns: columns, Rows: []model.Row{}}
	if len(records) == 1 {
		return table, nil
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{}),
	)
	if df.Err != nil {
		return nil, &ParseError{Reason: df.Err.Error()}
	}

	numeric, err := numericColumns(df, lines[1:], rules)
	if err != nil {
		return nil, err
	}

	cells := make([][]string, len(columns))
	for j, name := range columns {
		cells[j] = df.Col(name).Records()
	}
	queries := df.Col(model.ColQuery).Records()
	pages := df.Col(model.ColPage).Records()

	n := df.Nrow()
	table.Rows = make([]model.Row, n)
	for i := 0; i < n; i++ {
		values := make([]string, len(columns))
		for j := range columns {
			values[j] = cells[j][i]
		}
		table.Rows[i] = model.Row{
			Query:       queries[i],
			Page:        pages[i],
			Clicks:      valueAt(numeric, model.ColClicks, i),
			Impressions: valueAt(numeric, model.ColImpressions, i),
			Position:    valueAt(numeric, model.ColPosition, i),
			CTR:         valueAt(numeric, model.ColCTR, i),
			Values:      values,
		}
	}
	return table, nil
}

// dropDerivedColumns cleans the header and removes columns the detector recomputes, so a
// re-uploaded export does not carry stale or duplicate derived columns.
func dropDerivedColumns(records [][]string) [][]string {
	derived := make(map[string]bool, len(model.DerivedColumns))
	for _, c := range model.DerivedColumns {
		derived[c] = true
	}

	header := records[0]
	keep := make([]int, 0, len(header))
	for i, h := range header {
		header[i] = utils.CleanHeader(h)
		if !derived[header[i]] {
			keep = append(keep, i)
		}
	}
	if len(keep) == len(header) {
		return records
	}

	out := make([][]string, len(records))
	for r, rec := range records {
		row := make([]string, len(keep))
		for k, idx := range keep {
			row[k] = rec[idx]
		}
		out[r] = row
	}
	return out
}

func valueAt(numeric map[string][]float64, col string, i int) float64 {
	if values, ok := numeric[col]; ok {
		return values[i]
	}
	return 0
}
