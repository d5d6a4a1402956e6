package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"leadtimecli/internal/dataprocessing"
	apierrors "leadtimecli/internal/errors"
	"leadtimecli/internal/exporter"
	"leadtimecli/internal/middleware"
	"leadtimecli/internal/pipeline"
	"leadtimecli/internal/services"
)

// Response headers carrying the normalization report on file downloads
const (
	HeaderRowsRead  = "X-Rows-Read"
	HeaderRowsFinal = "X-Rows-Final"
	HeaderMatched   = "X-Matched-Records"
	HeaderCacheHit  = "X-Cache-Hit"
)

// LeadTimeHandler serves the lead-time analysis routes
type LeadTimeHandler struct {
	service      AnalysisServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validator    *middleware.RequestValidator
	maxUpload    int64
	now          func() time.Time
}

// NewLeadTimeHandler creates a handler accepting uploads up to maxUpload bytes
func NewLeadTimeHandler(service AnalysisServiceInterface, maxUpload int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *LeadTimeHandler {
	return &LeadTimeHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "leadtime_handler")),
		errorHandler: errorHandler,
		validator:    middleware.NewRequestValidator(),
		maxUpload:    maxUpload,
		now:          time.Now,
	}
}

// Routes returns the lead-time routes
func (h *LeadTimeHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/analyze", h.Analyze)
	r.Post("/export", h.Export)
	r.Post("/context", h.Context)
	r.Post("/workbook", h.Workbook)

	return r
}

// Analyze handles POST /api/v1/leadtime/analyze
func (h *LeadTimeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	result, err := h.service.Analyze(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	render.JSON(w, r, result)
}

// Export handles POST /api/v1/leadtime/export and streams the filtered CSV
func (h *LeadTimeHandler) Export(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	result, err := h.service.ExportCSV(r.Context(), req, &buf)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.writeFile(w, result, "text/csv; charset=utf-8", exporter.FilteredFileName(h.now()), buf.Bytes())
}

// Context handles POST /api/v1/leadtime/context
func (h *LeadTimeHandler) Context(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	doc, err := h.service.AssistantContext(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	render.JSON(w, r, doc)
}

// Workbook handles POST /api/v1/leadtime/workbook
func (h *LeadTimeHandler) Workbook(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	result, err := h.service.Workbook(r.Context(), req, &buf)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.writeFile(w, result, dataprocessing.ContentTypeXLSX, exporter.WorkbookFileName, buf.Bytes())
}

// decode reads the upload and the filter query; on failure it has already responded.
func (h *LeadTimeHandler) decode(w http.ResponseWriter, r *http.Request) (pipeline.Request, bool) {
	query, err := parseAnalysisQuery(r.URL.Query(), h.validator)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return pipeline.Request{}, false
	}

	in, err := readUpload(w, r, h.maxUpload)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return pipeline.Request{}, false
	}

	h.logger.InfoContext(r.Context(), "analysis requested",
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.String("format", string(in.Format)),
		slog.Int("bytes", len(in.Data)),
		slog.String("file", in.Name),
	)

	return pipeline.Request{
		Data:   in.Data,
		Format: in.Format,
		Filter: query.Filter(),
		TopN:   query.Top,
	}, true
}

func (h *LeadTimeHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrNoInput) {
		err = apierrors.ErrMissingInput
	}
	h.errorHandler.HandleError(w, r, err)
}

func (h *LeadTimeHandler) writeFile(w http.ResponseWriter, result *pipeline.Result, contentType, name string, body []byte) {
	header := w.Header()
	header.Set("Content-Type", contentType)
	header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	header.Set("Content-Length", strconv.Itoa(len(body)))
	header.Set(HeaderRowsRead, strconv.Itoa(result.Report.RowsRead))
	header.Set(HeaderRowsFinal, strconv.Itoa(result.Report.RowsFinal))
	header.Set(HeaderMatched, strconv.Itoa(result.Matched))
	header.Set(HeaderCacheHit, strconv.FormatBool(result.CacheHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
