package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cannibalisation-tool/internal/model"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when an upload ID is unknown.
var ErrNotFound = errors.New("upload not found")

var db *sql.DB

// InitDB opens the registry and creates its tables if they do not exist
func InitDB(dsn string) error {
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return err
	}
	// an in-memory database lives as long as its last connection
	conn.SetMaxOpenConns(1)

	uploadTable := `
	CREATE TABLE IF NOT EXISTS uploads (
		id TEXT PRIMARY KEY,
		file_name TEXT,
		content_hash TEXT,
		size INTEGER,
		row_count INTEGER,
		content BLOB,
		created_at DATETIME
	);
	`
	runTable := `
	CREATE TABLE IF NOT EXISTS analysis_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		upload_id TEXT,
		impression_th REAL,
		click_th REAL,
		flagged_rows INTEGER,
		flagged_queries INTEGER,
		cache_hit INTEGER,
		duration_us INTEGER,
		created_at DATETIME
	);
	`

	if _, err := conn.Exec(uploadTable); err != nil {
		conn.Close()
		return err
	}
	if _, err := conn.Exec(runTable); err != nil {
		conn.Close()
		return err
	}

	if db != nil {
		db.Close()
	}
	db = conn
	return nil
}

// CloseDB releases the registry connection
func CloseDB() error {
	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

// SaveUpload stores a new upload, assigning its ID and creation time
func SaveUpload(u *model.Upload) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	u.CreatedAt = time.Now().UTC()
	u.Size = int64(len(u.Content))

	_, err := db.Exec(`INSERT INTO uploads (id, file_name, content_hash, size, row_count, content, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.FileName, u.ContentHash, u.Size, u.RowCount, u.Content, u.CreatedAt)
	return err
}

// GetUpload fetches an upload including its content
func GetUpload(id string) (*model.Upload, error) {
	u := &model.Upload{ID: id}
	err := db.QueryRow(`SELECT file_name, content_hash, size, row_count, content, created_at FROM uploads WHERE id = ?`, id).
		Scan(&u.FileName, &u.ContentHash, &u.Size, &u.RowCount, &u.Content, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ListUploads returns upload metadata, newest first, without content
func ListUploads() ([]model.Upload, error) {
	rows, err := db.Query(`SELECT id, file_name, content_hash, size, row_count, created_at FROM uploads ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	uploads := []model.Upload{}
	for rows.Next() {
		var u model.Upload
		if err := rows.Scan(&u.ID, &u.FileName, &u.ContentHash, &u.Size, &u.RowCount, &u.CreatedAt); err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	return uploads, rows.Err()
}

// DeleteUpload removes an upload and its run log
func DeleteUpload(id string) error {
	res, err := db.Exec(`DELETE FROM uploads WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	_, err = db.Exec(`DELETE FROM analysis_runs WHERE upload_id = ?`, id)
	return err
}

// PruneUploads keeps the newest keep uploads and deletes the rest, returning how many were removed
func PruneUploads(keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := db.Exec(`DELETE FROM uploads WHERE id NOT IN (
		SELECT id FROM uploads ORDER BY created_at DESC, rowid DESC LIMIT ?
	)`, keep)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		if _, err := db.Exec(`DELETE FROM analysis_runs WHERE upload_id NOT IN (SELECT id FROM uploads)`); err != nil {
			return int(n), err
		}
	}
	return int(n), nil
}

// SaveAnalysisRun appends an entry to an upload's run log
func SaveAnalysisRun(run *model.AnalysisRun) error {
	run.CreatedAt = time.Now().UTC()
	res, err := db.Exec(`INSERT INTO analysis_runs (upload_id, impression_th, click_th, flagged_rows, flagged_queries, cache_hit, duration_us, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.UploadID, run.ImpressionTh, run.ClickTh, run.FlaggedRows, run.FlaggedQueries, run.CacheHit, run.Duration, run.CreatedAt)
	if err != nil {
		return err
	}
	run.ID, err = res.LastInsertId()
	return err
}

// ListAnalysisRuns returns the run log of an upload, oldest first
func ListAnalysisRuns(uploadID string) ([]model.AnalysisRun, error) {
	rows, err := db.Query(`SELECT id, upload_id, impression_th, click_th, flagged_rows, flagged_queries, cache_hit, duration_us, created_at
		FROM analysis_runs WHERE upload_id = ? ORDER BY id`, uploadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []model.AnalysisRun{}
	for rows.Next() {
		var r model.AnalysisRun
		if err := rows.Scan(&r.ID, &r.UploadID, &r.ImpressionTh, &r.ClickTh, &r.FlaggedRows, &r.FlaggedQueries,
			&r.CacheHit, &r.Duration, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
