package api

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cannibalisation-tool/internal/api/handler"
	"cannibalisation-tool/internal/config"
	"cannibalisation-tool/internal/pipeline"
	"cannibalisation-tool/internal/store"
	"cannibalisation-tool/pkg/router"
	"cannibalisation-tool/pkg/utils"
)

func newTestRouter(t *testing.T) *router.Router {
	t.Helper()
	log.SetOutput(io.Discard)
	if err := store.InitDB("file:api_routes?mode=memory&cache=shared"); err != nil {
		t.Fatalf("InitDB error: %v", err)
	}
	t.Cleanup(func() { store.CloseDB() })

	cfg := &config.Config{
		Store:  config.StoreConfig{MaxUploads: 10},
		Upload: config.UploadConfig{MaxBytes: 1 << 20},
		Cache:  config.CacheConfig{Size: 4},
		Detect: config.DetectConfig{ImpressionTh: 0.1, ClickTh: 0.1},
		Export: config.ExportConfig{OutputDir: t.TempDir()},
		UI:     config.UIConfig{MaxDisplayRows: 100},
	}
	runner, err := pipeline.NewRunner(cfg.Cache.Size, utils.NewDiscardLogger())
	if err != nil {
		t.Fatalf("NewRunner error: %v", err)
	}

	r := router.New()
	RegisterRoutes(r, handler.NewHandler(cfg, runner, utils.NewDiscardLogger()))
	return r
}

func TestRegisteredRoutes(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		method   string
		path     string
		status   int
		contains string
	}{
		{http.MethodGet, "/", http.StatusOK, "<form"},
		{http.MethodGet, "/health", http.StatusOK, `"status":"ok"`},
		{http.MethodGet, "/api/v1/uploads", http.StatusOK, `"count":0`},
		{http.MethodGet, "/api/v1/uploads/unknown", http.StatusNotFound, `"error"`},
		{http.MethodGet, "/api/v1/uploads/unknown/analysis", http.StatusNotFound, `"error"`},
		{http.MethodGet, "/api/v1/uploads/unknown/export/filtered", http.StatusNotFound, `"error"`},
		{http.MethodDelete, "/api/v1/uploads/unknown/analysis", http.StatusNotFound, `"error"`},
		{http.MethodPut, "/api/v1/uploads", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/swagger/doc.json", http.StatusOK, "Keyword Cannibalisation API"},
		{http.MethodGet, "/swagger/doc.json", http.StatusOK, `"basePath": "/api/v1"`},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.status {
			t.Errorf("%s %s: status = %d; want %d", tt.method, tt.path, rec.Code, tt.status)
			continue
		}
		if !strings.Contains(rec.Body.String(), tt.contains) {
			t.Errorf("%s %s: body %q should contain %q", tt.method, tt.path, rec.Body.String(), tt.contains)
		}
	}
}
