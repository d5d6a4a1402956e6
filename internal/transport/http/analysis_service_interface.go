package http

import (
	"context"
	"io"

	"leadtimecli/internal/exporter"
	"leadtimecli/internal/pipeline"
)

// AnalysisServiceInterface defines the analysis operations the handlers need
type AnalysisServiceInterface interface {
	Analyze(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
	ExportCSV(ctx context.Context, req pipeline.Request, w io.Writer) (*pipeline.Result, error)
	AssistantContext(ctx context.Context, req pipeline.Request) (exporter.AssistantContext, error)
	Workbook(ctx context.Context, req pipeline.Request, w io.Writer) (*pipeline.Result, error)
}
