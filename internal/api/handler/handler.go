package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cannibalisation-tool/internal/config"
	"cannibalisation-tool/internal/model"
	"cannibalisation-tool/internal/pipeline"
	"cannibalisation-tool/internal/store"
	"cannibalisation-tool/pkg/utils"
	"cannibalisation-tool/pkg/utils/httputils"
)

const uploadsPrefix = "/api/v1/uploads/"

var errMissingFile = errors.New("no file uploaded: send the CSV in the \"file\" form field")

// Handler serves the interactive page and the JSON API.
type Handler struct {
	cfg    *config.Config
	runner *pipeline.Runner
	output *utils.OutputManager
	logger *utils.Logger
}

func NewHandler(cfg *config.Config, runner *pipeline.Runner, logger *utils.Logger) *Handler {
	return &Handler{
		cfg:    cfg,
		runner: runner,
		output: utils.NewOutputManager(cfg.Export.OutputDir),
		logger: logger,
	}
}

// analysisResult bundles one detection request against a stored upload.
type analysisResult struct {
	Upload     *model.Upload
	Analysis   *model.Analysis
	Refinement *model.Refinement
	CacheHit   bool
}

// parseSpec reads thresholds and refinement bounds from the query string, falling back to
// the configured thresholds and zero bounds.
func (h *Handler) parseSpec(q url.Values) (model.AnalysisSpec, error) {
	spec := model.AnalysisSpec{
		Thresholds: model.Thresholds{
			ImpressionTh: h.cfg.Detect.ImpressionTh,
			ClickTh:      h.cfg.Detect.ClickTh,
		},
	}

	params := []struct {
		name string
		dst  *float64
	}{
		{"impression_th", &spec.Thresholds.ImpressionTh},
		{"click_th", &spec.Thresholds.ClickTh},
		{"filter_tot_imp", &spec.Bounds.MinTotalImpressions},
		{"filter_tot_cli", &spec.Bounds.MinTotalClicks},
		{"filter_imp_share", &spec.Bounds.MinImpressionsShare},
		{"filter_imp_click", &spec.Bounds.MinClicksShare},
	}
	for _, p := range params {
		v, err := utils.ParseFloatParam(q.Get(p.name), *p.dst)
		if err != nil {
			return spec, httputils.BadRequest(fmt.Sprintf("invalid %s: %q is not a number", p.name, q.Get(p.name)))
		}
		*p.dst = v
	}

	if err := pipeline.ValidateThresholds(spec.Thresholds); err != nil {
		return spec, err
	}
	if err := pipeline.ValidateBounds(spec.Bounds); err != nil {
		return spec, err
	}
	return spec, nil
}

// analyse runs detection and refinement for a stored upload and appends to its run log.
func (h *Handler) analyse(uploadID string, spec model.AnalysisSpec) (*analysisResult, error) {
	upload, err := store.GetUpload(uploadID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	analysis, hit, err := h.runner.Analyse(upload.Content, spec.Thresholds)
	if err != nil {
		return nil, err
	}
	refinement, err := pipeline.Refine(analysis.Flagged, spec.Bounds)
	if err != nil {
		return nil, err
	}

	run := &model.AnalysisRun{
		UploadID:       upload.ID,
		ImpressionTh:   spec.Thresholds.ImpressionTh,
		ClickTh:        spec.Thresholds.ClickTh,
		FlaggedRows:    analysis.FlaggedRows,
		FlaggedQueries: analysis.FlaggedQueries,
		CacheHit:       hit,
		Duration:       time.Since(start).Microseconds(),
	}
	if err := store.SaveAnalysisRun(run); err != nil {
		h.logger.Warn("⚠️ Failed to record analysis run for %s: %v", upload.ID, err)
	}

	return &analysisResult{Upload: upload, Analysis: analysis, Refinement: refinement, CacheHit: hit}, nil
}

// saveUpload reads the multipart "file" field, checks that it parses and stores it.
func (h *Handler) saveUpload(w http.ResponseWriter, r *http.Request) (*model.Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.Upload.MaxBytes)
	if err := r.ParseMultipartForm(h.cfg.Upload.MaxBytes); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, httputils.BadRequest("expected a multipart/form-data upload")
		}
		return nil, err
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, errMissingFile
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	if !h.output.IsCSV(header.Filename) {
		return nil, httputils.BadRequest(fmt.Sprintf("%q is not a .csv file", header.Filename))
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	table, err := pipeline.ParseCSV(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	upload := &model.Upload{
		FileName:    header.Filename,
		ContentHash: utils.ContentHash(content),
		RowCount:    len(table.Rows),
		Content:     content,
	}
	if err := store.SaveUpload(upload); err != nil {
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}
	h.logger.Info("📥 Stored upload %s (%s, %d rows, %d bytes)", upload.ID, upload.FileName, upload.RowCount, upload.Size)

	removed, err := store.PruneUploads(h.cfg.Store.MaxUploads)
	if err != nil {
		h.logger.Warn("⚠️ Failed to prune uploads: %v", err)
	} else if removed > 0 {
		h.logger.Debug("🧹 Pruned %d old uploads", removed)
	}
	return upload, nil
}

// toHTTPError classifies domain errors into HTTP errors. Anything unrecognised is returned
// unchanged and ends up as a 500.
func toHTTPError(err error) error {
	var httpErr *httputils.HTTPError
	var parseErr *pipeline.ParseError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case errors.As(err, &tooLarge):
		return httputils.TooLarge(fmt.Sprintf("file exceeds the %d byte upload limit", tooLarge.Limit))
	case errors.As(err, &parseErr),
		errors.Is(err, pipeline.ErrEmptyInput),
		errors.Is(err, pipeline.ErrInvalidThreshold),
		errors.Is(err, pipeline.ErrInvalidBound),
		errors.Is(err, errMissingFile):
		return httputils.BadRequest(err.Error())
	case errors.Is(err, store.ErrNotFound):
		return httputils.NotFound(err.Error())
	}
	return err
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	err = toHTTPError(err)
	var httpErr *httputils.HTTPError
	if !errors.As(err, &httpErr) {
		h.logger.Error("❌ %v", err)
	}
	httputils.HandleError(w, err)
}

// uploadID extracts the ID segment from /api/v1/uploads/{id}{suffix}.
func uploadID(path, suffix string) (string, error) {
	if !strings.HasPrefix(path, uploadsPrefix) || !strings.HasSuffix(path, suffix) ||
		len(path) < len(uploadsPrefix)+len(suffix) {
		return "", httputils.BadRequest("invalid path")
	}
	id := path[len(uploadsPrefix) : len(path)-len(suffix)]
	if id == "" {
		return "", httputils.BadRequest("upload ID is required")
	}
	if strings.Contains(id, "/") {
		return "", httputils.NotFound("unknown upload route")
	}
	return id, nil
}
