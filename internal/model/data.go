package model

import "time"

// Upload is an uploaded CSV held by the registry between interactions
type Upload struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentHash string    `json:"content_hash"`
	Size        int64     `json:"size"`
	RowCount    int       `json:"row_count"`
	Content     []byte    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExportResult represents the result of an export operation
type ExportResult struct {
	Type        string    `json:"type"` // "csv", "http"
	Path        string    `json:"path"` // file path or download name
	RecordCount int       `json:"record_count"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
