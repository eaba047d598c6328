package api

import (
	_ "cannibalisation-tool/docs"
	"cannibalisation-tool/internal/api/handler"
	"cannibalisation-tool/pkg/router"

	httpSwagger "github.com/swaggo/http-swagger"
)

func RegisterRoutes(r *router.Router, h *handler.Handler) {
	r.GET("/", h.Index)
	r.POST("/upload", h.UploadPage)
	r.GET("/health", h.Health)

	r.POST("/api/v1/uploads", h.CreateUpload)
	r.GET("/api/v1/uploads", h.ListUploads)
	// More specific routes first
	r.GET("/api/v1/uploads/*/analysis", h.GetAnalysis)
	r.GET("/api/v1/uploads/*/runs", h.ListRuns)
	r.GET("/api/v1/uploads/*/export/full", h.ExportFull)
	r.GET("/api/v1/uploads/*/export/filtered", h.ExportFiltered)
	// Generic upload routes last
	r.GET("/api/v1/uploads/*", h.GetUpload)
	r.DELETE("/api/v1/uploads/*", h.DeleteUpload)

	r.GET("/swagger/*", router.HandlerFunc(httpSwagger.WrapHandler))
}
