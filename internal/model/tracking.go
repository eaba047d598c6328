package model

import "time"

// AnalysisRun records one detection request against an upload
type AnalysisRun struct {
	ID             int64     `json:"id"`
	UploadID       string    `json:"upload_id"`
	ImpressionTh   float64   `json:"impression_th"`
	ClickTh        float64   `json:"click_th"`
	FlaggedRows    int       `json:"flagged_rows"`
	FlaggedQueries int       `json:"flagged_queries"`
	CacheHit       bool      `json:"cache_hit"`
	Duration       int64     `json:"duration_us"`
	CreatedAt      time.Time `json:"created_at"`
}
