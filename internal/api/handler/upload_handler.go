package handler

import (
	"net/http"

	"cannibalisation-tool/internal/model"
	"cannibalisation-tool/internal/pipeline"
	"cannibalisation-tool/internal/store"
	"cannibalisation-tool/pkg/utils"
	"cannibalisation-tool/pkg/utils/httputils"
)

// AnalysisResponse is the JSON view of one detection and refinement request.
type AnalysisResponse struct {
	UploadID       string                 `json:"upload_id"`
	Thresholds     model.Thresholds       `json:"thresholds"`
	Bounds         model.RefinementBounds `json:"bounds"`
	TotalRows      int                    `json:"total_rows"`
	TotalQueries   int                    `json:"total_queries"`
	FlaggedRows    int                    `json:"flagged_rows"`
	FlaggedQueries int                    `json:"flagged_queries"`
	RowCount       int                    `json:"row_count"`
	QueryCount     int                    `json:"query_count"`
	CacheHit       bool                   `json:"cache_hit"`
	Summary        string                 `json:"summary"`
	Queries        []model.QueryAggregate `json:"queries"`
	Rows           []model.AnnotatedRow   `json:"rows"`
	Downloads      map[string]string      `json:"downloads"`
}

// CreateUpload stores an uploaded search console export
// @Summary Upload a CSV export
// @Description Upload a query/page performance CSV. The file is parsed before it is stored, so malformed input is rejected here.
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Search console CSV export"
// @Success 201 {object} model.Upload "Stored upload"
// @Failure 400 {object} map[string]string "Missing or malformed file"
// @Failure 413 {object} map[string]string "File too large"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /uploads [post]
func (h *Handler) CreateUpload(w http.ResponseWriter, r *http.Request) {
	upload, err := h.saveUpload(w, r)
	if err != nil {
		h.fail(w, err)
		return
	}
	httputils.JSONResponse(w, http.StatusCreated, upload)
}

// ListUploads returns the stored uploads
// @Summary List uploads
// @Description List stored uploads, newest first
// @Tags uploads
// @Produce json
// @Success 200 {array} model.Upload "Uploads"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /uploads [get]
func (h *Handler) ListUploads(w http.ResponseWriter, r *http.Request) {
	uploads, err := store.ListUploads()
	if err != nil {
		h.fail(w, err)
		return
	}
	httputils.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"uploads": uploads,
		"count":   len(uploads),
	})
}

// GetUpload returns the metadata of one upload
// @Summary Get upload
// @Tags uploads
// @Produce json
// @Param id path string true "Upload ID"
// @Success 200 {object} model.Upload "Upload"
// @Failure 404 {object} map[string]string "Upload not found"
// @Router /uploads/{id} [get]
func (h *Handler) GetUpload(w http.ResponseWriter, r *http.Request) {
	id, err := uploadID(r.URL.Path, "")
	if err != nil {
		h.fail(w, err)
		return
	}
	upload, err := store.GetUpload(id)
	if err != nil {
		h.fail(w, err)
		return
	}
	httputils.JSONResponse(w, http.StatusOK, upload)
}

// DeleteUpload removes an upload and its run log
// @Summary Delete upload
// @Tags uploads
// @Produce json
// @Param id path string true "Upload ID"
// @Success 200 {object} map[string]interface{} "Upload deleted"
// @Failure 404 {object} map[string]string "Upload not found"
// @Router /uploads/{id} [delete]
func (h *Handler) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	id, err := uploadID(r.URL.Path, "")
	if err != nil {
		h.fail(w, err)
		return
	}
	if err := store.DeleteUpload(id); err != nil {
		h.fail(w, err)
		return
	}
	h.logger.Info("🗑️ Deleted upload %s", id)
	httputils.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"message":   "Upload deleted",
		"upload_id": id,
	})
}

// GetAnalysis runs cannibalisation detection over an upload
// @Summary Analyse upload
// @Description Flag queries where more than one page reaches the share thresholds, then narrow the flagged rows with the refinement bounds
// @Tags analysis
// @Produce json
// @Param id path string true "Upload ID"
// @Param impression_th query number false "Impression share threshold in [0,1]" default(0.1)
// @Param click_th query number false "Click share threshold in [0,1]" default(0.1)
// @Param filter_tot_imp query number false "Minimum total impressions" Enums(0,1,10,50,100,200,300,400,500,1000,10000)
// @Param filter_tot_cli query number false "Minimum total clicks" Enums(0,1,10,50,100,200,300,400,500,1000,10000)
// @Param filter_imp_share query number false "Minimum impressions share in [0,1]"
// @Param filter_imp_click query number false "Minimum clicks share in [0,1]"
// @Param sort query string false "Order the query summary" Enums(total_impressions,total_clicks,row_count,query)
// @Param order query string false "Sort direction, descending unless asc" Enums(asc,desc)
// @Success 200 {object} AnalysisResponse "Analysis"
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 404 {object} map[string]string "Upload not found"
// @Router /uploads/{id}/analysis [get]
func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := uploadID(r.URL.Path, "/analysis")
	if err != nil {
		h.fail(w, err)
		return
	}
	spec, err := h.parseSpec(r.URL.Query())
	if err != nil {
		h.fail(w, err)
		return
	}
	res, err := h.analyse(id, spec)
	if err != nil {
		h.fail(w, err)
		return
	}

	a, ref := res.Analysis, res.Refinement
	queries := pipeline.SummariseQueries(ref.Rows)
	if sortBy := r.URL.Query().Get("sort"); sortBy != "" {
		pipeline.SortAggregates(queries, sortBy, r.URL.Query().Get("order") == "asc")
	}
	httputils.JSONResponse(w, http.StatusOK, AnalysisResponse{
		UploadID:       id,
		Thresholds:     a.Thresholds,
		Bounds:         ref.Bounds,
		TotalRows:      a.TotalRows,
		TotalQueries:   a.TotalQueries,
		FlaggedRows:    a.FlaggedRows,
		FlaggedQueries: a.FlaggedQueries,
		RowCount:       ref.RowCount,
		QueryCount:     ref.QueryCount,
		CacheHit:       res.CacheHit,
		Summary:        ref.Summary(),
		Queries:        queries,
		Rows:           ref.Rows,
		Downloads: map[string]string{
			utils.FullExportFileName:     h.output.GetDownloadURL(id, utils.FullExportFileName, r.URL.RawQuery),
			utils.FilteredExportFileName: h.output.GetDownloadURL(id, utils.FilteredExportFileName, r.URL.RawQuery),
		},
	})
}

// ListRuns returns the analysis run log of an upload
// @Summary List analysis runs
// @Tags analysis
// @Produce json
// @Param id path string true "Upload ID"
// @Success 200 {object} map[string]interface{} "Run log"
// @Failure 404 {object} map[string]string "Upload not found"
// @Router /uploads/{id}/runs [get]
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	id, err := uploadID(r.URL.Path, "/runs")
	if err != nil {
		h.fail(w, err)
		return
	}
	if _, err := store.GetUpload(id); err != nil {
		h.fail(w, err)
		return
	}
	runs, err := store.ListAnalysisRuns(id)
	if err != nil {
		h.fail(w, err)
		return
	}
	httputils.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"upload_id": id,
		"runs":      runs,
		"count":     len(runs),
	})
}

// ExportFull downloads every row of the flagged queries
// @Summary Download flagged table
// @Tags exports
// @Produce text/csv
// @Param id path string true "Upload ID"
// @Param impression_th query number false "Impression share threshold in [0,1]" default(0.1)
// @Param click_th query number false "Click share threshold in [0,1]" default(0.1)
// @Success 200 {file} file "Full data - unfiltered.csv"
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 404 {object} map[string]string "Upload not found"
// @Router /uploads/{id}/export/full [get]
func (h *Handler) ExportFull(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "/export/full", utils.FullExportFileName)
}

// ExportFiltered downloads the flagged rows that pass the refinement bounds
// @Summary Download refined table
// @Tags exports
// @Produce text/csv
// @Param id path string true "Upload ID"
// @Param impression_th query number false "Impression share threshold in [0,1]" default(0.1)
// @Param click_th query number false "Click share threshold in [0,1]" default(0.1)
// @Param filter_tot_imp query number false "Minimum total impressions"
// @Param filter_tot_cli query number false "Minimum total clicks"
// @Param filter_imp_share query number false "Minimum impressions share in [0,1]"
// @Param filter_imp_click query number false "Minimum clicks share in [0,1]"
// @Success 200 {file} file "output.csv"
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 404 {object} map[string]string "Upload not found"
// @Router /uploads/{id}/export/filtered [get]
func (h *Handler) ExportFiltered(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, "/export/filtered", utils.FilteredExportFileName)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request, suffix, fileName string) {
	id, err := uploadID(r.URL.Path, suffix)
	if err != nil {
		h.fail(w, err)
		return
	}
	spec, err := h.parseSpec(r.URL.Query())
	if err != nil {
		h.fail(w, err)
		return
	}
	res, err := h.analyse(id, spec)
	if err != nil {
		h.fail(w, err)
		return
	}

	rows := res.Refinement.Rows
	if fileName == utils.FullExportFileName {
		rows = res.Analysis.Flagged
	}

	httputils.CSVAttachment(w, fileName)
	if err := pipeline.WriteCSV(w, res.Analysis.Columns, rows); err != nil {
		h.logger.Error("❌ Export of %s for %s failed: %v", fileName, id, err)
		return
	}
	h.logger.Info("✅ Exported %d records to %s for upload %s", len(rows), fileName, id)
}

// Health reports liveness and how many analyses are cached
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httputils.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"status":          "ok",
		"cached_analyses": h.runner.CacheLen(),
	})
}
