package services

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	apperrors "leadtimecli/internal/errors"
	"leadtimecli/internal/exporter"
	"leadtimecli/internal/infrastructure"
	"leadtimecli/internal/pipeline"
)

// AnalysisService runs lead-time analyses and renders their outputs.
// It holds no per-request state; every call carries its own input.
type AnalysisService struct {
	pipeline *pipeline.Pipeline
	exporter *exporter.RecordExporter
	logger   *slog.Logger
}

// ReportOptions controls which files WriteReports produces.
type ReportOptions struct {
	Dir      string
	Now      time.Time
	Workbook bool
}

// ReportFiles lists the paths WriteReports wrote. Workbook is empty when not requested.
type ReportFiles struct {
	CSV      string `json:"csv"`
	Summary  string `json:"summary"`
	Context  string `json:"context"`
	Workbook string `json:"workbook,omitempty"`
}

// NewAnalysisService wraps p. A nil logger falls back to the default.
func NewAnalysisService(p *pipeline.Pipeline, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}

	return &AnalysisService{
		pipeline: p,
		exporter: exporter.NewRecordExporter(p.Config().ExportDateLayout),
		logger:   infrastructure.WithComponent(logger, "analysis_service"),
	}
}

// Analyze runs the pipeline for req.
func (s *AnalysisService) Analyze(ctx context.Context, req pipeline.Request) (*pipeline.Result, error) {
	if len(req.Data) == 0 {
		return nil, ErrNoInput
	}
	return s.pipeline.Run(ctx, req)
}

// ExportCSV writes the filtered records of req as CSV.
func (s *AnalysisService) ExportCSV(ctx context.Context, req pipeline.Request, w io.Writer) (*pipeline.Result, error) {
	result, err := s.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.exporter.WriteCSV(w, result.Records); err != nil {
		return nil, err
	}
	return result, nil
}

// AssistantContext builds the assistant document for req.
func (s *AnalysisService) AssistantContext(ctx context.Context, req pipeline.Request) (exporter.AssistantContext, error) {
	result, err := s.Analyze(ctx, req)
	if err != nil {
		return exporter.AssistantContext{}, err
	}
	return s.pipeline.AssistantContext(result), nil
}

// Workbook writes the XLSX summary workbook for req.
func (s *AnalysisService) Workbook(ctx context.Context, req pipeline.Request, w io.Writer) (*pipeline.Result, error) {
	result, err := s.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := exporter.WriteWorkbook(w, result.Summary, result.Top); err != nil {
		return nil, err
	}
	return result, nil
}

// WriteReports writes the filtered CSV, the JSON summary and the assistant
// context for result into opts.Dir, plus the workbook when requested.
func (s *AnalysisService) WriteReports(ctx context.Context, result *pipeline.Result, opts ReportOptions) (ReportFiles, error) {
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return ReportFiles{}, apperrors.NewStorageError("failed to create output directory", err).
			WithContext("dir", opts.Dir)
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	var files ReportFiles
	var err error

	if files.CSV, err = s.exporter.WriteFile(opts.Dir, result.Records, now); err != nil {
		return ReportFiles{}, err
	}

	files.Summary = filepath.Join(opts.Dir, exporter.SummaryFileName)
	if err := exporter.WriteJSONFile(files.Summary, result); err != nil {
		return ReportFiles{}, err
	}

	files.Context = filepath.Join(opts.Dir, exporter.ContextFileName)
	if err := exporter.WriteJSONFile(files.Context, s.pipeline.AssistantContext(result)); err != nil {
		return ReportFiles{}, err
	}

	if opts.Workbook {
		files.Workbook = filepath.Join(opts.Dir, exporter.WorkbookFileName)
		if err := exporter.WriteWorkbookFile(files.Workbook, result.Summary, result.Top); err != nil {
			return ReportFiles{}, err
		}
	}

	s.logger.InfoContext(ctx, "Reports written",
		slog.String("dir", opts.Dir),
		slog.String("csv", filepath.Base(files.CSV)),
		slog.Bool("workbook", opts.Workbook),
		slog.Int("records", len(result.Records)))
	return files, nil
}

// CacheStats reports the pipeline cache counters.
func (s *AnalysisService) CacheStats() map[string]interface{} {
	return s.pipeline.CacheStats()
}
