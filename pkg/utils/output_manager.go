package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Download names of the two export artifacts.
const (
	FullExportFileName     = "Full data - unfiltered.csv"
	FilteredExportFileName = "output.csv"
)

// OutputManager handles output file organization and path management
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{
		BaseOutputDir: baseOutputDir,
	}
}

// CreateRunOutputDir creates a UUID-named directory for one run's outputs
func (om *OutputManager) CreateRunOutputDir(runID string) (string, error) {
	runDir := filepath.Join(om.BaseOutputDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create run output directory: %w", err)
	}

	return runDir, nil
}

// GetOutputFilePath generates a full path for an output file
func (om *OutputManager) GetOutputFilePath(runID, fileName string) (string, error) {
	runDir, err := om.CreateRunOutputDir(runID)
	if err != nil {
		return "", err
	}

	// Clean the filename to remove any path separators
	cleanFileName := filepath.Base(fileName)

	return filepath.Join(runDir, cleanFileName), nil
}

// GetDownloadURL builds the API path serving one of the export artifacts
func (om *OutputManager) GetDownloadURL(uploadID, fileName, rawQuery string) string {
	kind := "filtered"
	if fileName == FullExportFileName {
		kind = "full"
	}
	url := fmt.Sprintf("/api/v1/uploads/%s/export/%s", uploadID, kind)
	if rawQuery != "" {
		url += "?" + rawQuery
	}
	return url
}

// IsCSV reports whether a file name carries a .csv extension
func (om *OutputManager) IsCSV(fileName string) bool {
	return strings.ToLower(filepath.Ext(fileName)) == ".csv"
}
