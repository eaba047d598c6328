package handler

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"cannibalisation-tool/internal/model"
	"cannibalisation-tool/internal/pipeline"
	"cannibalisation-tool/internal/store"
	"cannibalisation-tool/pkg/utils"
	"cannibalisation-tool/pkg/utils/httputils"
)

type pageData struct {
	Error        string
	Upload       *model.Upload
	Spec         model.AnalysisSpec
	TotalOptions []float64

	Summary        string
	FlaggedRows    int
	FlaggedQueries int
	Header         []string
	Rows           [][]string
	Hidden         int
	FullURL        string
	FilteredURL    string
}

// Index renders the upload form and, for a stored upload, the flagged table
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		TotalOptions: model.TotalFilterOptions,
		Spec: model.AnalysisSpec{Thresholds: model.Thresholds{
			ImpressionTh: h.cfg.Detect.ImpressionTh,
			ClickTh:      h.cfg.Detect.ClickTh,
		}},
	}

	q := r.URL.Query()
	id := q.Get("upload")
	if id == "" {
		h.render(w, http.StatusOK, data)
		return
	}

	spec, err := h.parseSpec(q)
	if err != nil {
		// keep the controls on screen, reset to the defaults
		if upload, lookupErr := store.GetUpload(id); lookupErr == nil {
			data.Upload = upload
		}
		h.renderError(w, data, err)
		return
	}
	data.Spec = spec

	res, err := h.analyse(id, spec)
	if err != nil {
		h.renderError(w, data, err)
		return
	}

	rows := res.Refinement.Rows
	if len(rows) > h.cfg.UI.MaxDisplayRows {
		data.Hidden = len(rows) - h.cfg.UI.MaxDisplayRows
		rows = rows[:h.cfg.UI.MaxDisplayRows]
	}
	records := pipeline.Records(res.Analysis.Columns, rows)

	data.Upload = res.Upload
	data.Summary = res.Refinement.Summary()
	data.FlaggedRows = res.Analysis.FlaggedRows
	data.FlaggedQueries = res.Analysis.FlaggedQueries
	data.Header = records[0]
	data.Rows = records[1:]

	params := specQuery(spec).Encode()
	data.FullURL = h.output.GetDownloadURL(id, utils.FullExportFileName, params)
	data.FilteredURL = h.output.GetDownloadURL(id, utils.FilteredExportFileName, params)

	h.render(w, http.StatusOK, data)
}

// UploadPage stores the submitted file and redirects to its analysis
func (h *Handler) UploadPage(w http.ResponseWriter, r *http.Request) {
	upload, err := h.saveUpload(w, r)
	if errors.Is(err, errMissingFile) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		h.renderError(w, pageData{
			TotalOptions: model.TotalFilterOptions,
			Spec: model.AnalysisSpec{Thresholds: model.Thresholds{
				ImpressionTh: h.cfg.Detect.ImpressionTh,
				ClickTh:      h.cfg.Detect.ClickTh,
			}},
		}, err)
		return
	}
	http.Redirect(w, r, "/?upload="+url.QueryEscape(upload.ID), http.StatusSeeOther)
}

func (h *Handler) renderError(w http.ResponseWriter, data pageData, err error) {
	status := http.StatusInternalServerError
	data.Error = "Something went wrong while processing the file."

	var httpErr *httputils.HTTPError
	if errors.As(toHTTPError(err), &httpErr) {
		status = httpErr.Code
		data.Error = httpErr.Message
	} else {
		h.logger.Error("❌ %v", err)
	}
	h.render(w, status, data)
}

func (h *Handler) render(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := indexPageTemplate.Execute(&buf, data); err != nil {
		h.logger.Error("❌ template error: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func specQuery(spec model.AnalysisSpec) url.Values {
	return url.Values{
		"impression_th":    {utils.FormatNumber(spec.Thresholds.ImpressionTh)},
		"click_th":         {utils.FormatNumber(spec.Thresholds.ClickTh)},
		"filter_tot_imp":   {utils.FormatNumber(spec.Bounds.MinTotalImpressions)},
		"filter_tot_cli":   {utils.FormatNumber(spec.Bounds.MinTotalClicks)},
		"filter_imp_share": {utils.FormatNumber(spec.Bounds.MinImpressionsShare)},
		"filter_imp_click": {utils.FormatNumber(spec.Bounds.MinClicksShare)},
	}
}

var indexPageTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Keyword cannibalisation</title>
  <style>
    body { font-family: system-ui, sans-serif; margin: 24px; color: #1f2933; }
    h1 { font-size: 22px; }
    form { margin-bottom: 18px; }
    .error { background: #fde8e8; color: #9b1c1c; padding: 10px 14px; border-radius: 6px; }
    .controls { display: grid; grid-template-columns: repeat(2, minmax(0, 320px)); gap: 10px 24px; }
    .controls label { display: flex; flex-direction: column; font-size: 14px; }
    .summary { font-weight: 600; margin: 14px 0; }
    .downloads a { margin-right: 16px; }
    table { border-collapse: collapse; font-size: 13px; margin-top: 12px; }
    th, td { border: 1px solid #d2d6dc; padding: 4px 8px; text-align: left; }
    th { background: #f4f5f7; }
  </style>
</head>
<body>
  <h1>Keyword cannibalisation</h1>
  <p>Upload a search console export with query, page, clicks and impressions columns.</p>

  <form method="post" action="/upload" enctype="multipart/form-data">
    <input type="file" name="file" accept=".csv,text/csv">
    <button type="submit">Upload</button>
  </form>

  {{if .Error}}<p class="error">{{.Error}}</p>{{end}}

  {{with .Upload}}
  <h2>{{.FileName}}</h2>
  <form method="get" action="/">
    <input type="hidden" name="upload" value="{{.ID}}">
    <div class="controls">
      <label>Impressions threshold: {{$.Spec.Thresholds.ImpressionTh}}
        <input type="range" name="impression_th" min="0" max="1" step="0.01" value="{{$.Spec.Thresholds.ImpressionTh}}">
      </label>
      <label>Clicks threshold: {{$.Spec.Thresholds.ClickTh}}
        <input type="range" name="click_th" min="0" max="1" step="0.01" value="{{$.Spec.Thresholds.ClickTh}}">
      </label>
      <label>Minimum total impressions
        <select name="filter_tot_imp">
          {{range $.TotalOptions}}<option value="{{.}}"{{if eq . $.Spec.Bounds.MinTotalImpressions}} selected{{end}}>{{.}}</option>{{end}}
        </select>
      </label>
      <label>Minimum total clicks
        <select name="filter_tot_cli">
          {{range $.TotalOptions}}<option value="{{.}}"{{if eq . $.Spec.Bounds.MinTotalClicks}} selected{{end}}>{{.}}</option>{{end}}
        </select>
      </label>
      <label>Minimum impressions share: {{$.Spec.Bounds.MinImpressionsShare}}
        <input type="range" name="filter_imp_share" min="0" max="1" step="0.01" value="{{$.Spec.Bounds.MinImpressionsShare}}">
      </label>
      <label>Minimum clicks share: {{$.Spec.Bounds.MinClicksShare}}
        <input type="range" name="filter_imp_click" min="0" max="1" step="0.01" value="{{$.Spec.Bounds.MinClicksShare}}">
      </label>
    </div>
    <button type="submit">Apply</button>
  </form>

  {{if $.Header}}
  <p>{{$.FlaggedRows}} rows across {{$.FlaggedQueries}} queries are flagged before filtering.</p>
  <p class="summary">{{$.Summary}}</p>
  <p class="downloads">
    <a href="{{$.FullURL}}">Download Full data - unfiltered.csv</a>
    <a href="{{$.FilteredURL}}">Download output.csv</a>
  </p>

  <table>
    <thead><tr>{{range $.Header}}<th>{{.}}</th>{{end}}</tr></thead>
    <tbody>
      {{range $.Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
      {{end}}
    </tbody>
  </table>
  {{if $.Hidden}}<p>{{$.Hidden}} more rows are in the download.</p>{{end}}
  {{end}}
  {{end}}
</body>
</html>
`))
