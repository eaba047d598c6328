package pipeline

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"cannibalisation-tool/internal/model"
	"cannibalisation-tool/pkg/utils"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// WriteCSV serialises rows with a header: the input columns as read, then the derived columns.
// Row order is preserved and no index column is written.
func WriteCSV(w io.Writer, columns []string, rows []model.AnnotatedRow) error {
	df := toDataFrame(columns, rows)
	if df.Err != nil {
		return fmt.Errorf("failed to build export table: %w", df.Err)
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// Records renders rows as they would be exported, header first.
func Records(columns []string, rows []model.AnnotatedRow) [][]string {
	return toDataFrame(columns, rows).Records()
}

func toDataFrame(columns []string, rows []model.AnnotatedRow) dataframe.DataFrame {
	n := len(rows)
	cols := make([]series.Series, 0, len(columns)+len(model.DerivedColumns))

	for j, name := range columns {
		values := make([]string, n)
		for i, row := range rows {
			if j < len(row.Values) {
				values[i] = row.Values[j]
			}
		}
		cols = append(cols, series.New(values, series.String, name))
	}

	totalImpr := make([]string, n)
	totalClicks := make([]string, n)
	imprShare := make([]string, n)
	clicksShare := make([]string, n)
	multiImpr := make([]string, n)
	multiClicks := make([]string, n)
	for i, row := range rows {
		totalImpr[i] = utils.FormatNumber(row.TotalImpressions)
		totalClicks[i] = utils.FormatNumber(row.TotalClicks)
		imprShare[i] = utils.FormatNumber(row.ImpressionsShare)
		clicksShare[i] = utils.FormatNumber(row.ClicksShare)
		multiImpr[i] = strconv.FormatBool(row.MultiImpr)
		multiClicks[i] = strconv.FormatBool(row.MultiClicks)
	}
	cols = append(cols,
		series.New(totalImpr, series.String, model.ColTotalImpressions),
		series.New(totalClicks, series.String, model.ColTotalClicks),
		series.New(imprShare, series.String, model.ColImpressionsShare),
		series.New(clicksShare, series.String, model.ColClicksShare),
		series.New(multiImpr, series.String, model.ColMultiImpr),
		series.New(multiClicks, series.String, model.ColMultiClicks),
	)

	return dataframe.New(cols...)
}

// ExportManager writes the export artifacts of one run to disk
type ExportManager struct {
	RunID  string
	Output *utils.OutputManager
	logger *utils.Logger
}

func NewExportManager(runID string, output *utils.OutputManager, logger *utils.Logger) *ExportManager {
	return &ExportManager{RunID: runID, Output: output, logger: logger}
}

// ExportAll writes the flagged table and the refined table.
func (em *ExportManager) ExportAll(analysis *model.Analysis, refinement *model.Refinement) []model.ExportResult {
	return []model.ExportResult{
		em.ExportFile(utils.FullExportFileName, analysis.Columns, analysis.Flagged),
		em.ExportFile(utils.FilteredExportFileName, analysis.Columns, refinement.Rows),
	}
}

// ExportFile writes rows to fileName inside the run directory
func (em *ExportManager) ExportFile(fileName string, columns []string, rows []model.AnnotatedRow) model.ExportResult {
	result := model.ExportResult{
		Type:      "csv",
		Timestamp: time.Now(),
	}

	path, err := em.Output.GetOutputFilePath(em.RunID, fileName)
	if err != nil {
		result.Error = err.Error()
		em.logger.Error("❌ Export to %s failed: %v", fileName, err)
		return result
	}
	result.Path = path

	if err := writeCSVFile(path, columns, rows); err != nil {
		result.Error = err.Error()
		em.logger.Error("❌ Export to %s failed: %v", path, err)
		return result
	}

	result.RecordCount = len(rows)
	result.Success = true
	em.logger.Info("✅ Export to file successful: %d records exported to %s", len(rows), path)
	return result
}

func writeCSVFile(path string, columns []string, rows []model.AnnotatedRow) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := WriteCSV(file, columns, rows); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
