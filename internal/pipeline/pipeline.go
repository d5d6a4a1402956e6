package pipeline

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"leadtimecli/internal/analytics"
	"leadtimecli/internal/config"
	"leadtimecli/internal/dataprocessing"
	"leadtimecli/internal/exporter"
	"leadtimecli/internal/infrastructure"
	"leadtimecli/pkg/contracts/domain"
)

// TracerName names the pipeline's OpenTelemetry tracer.
const TracerName = "leadtimecli.pipeline"

// Batch is one normalized upload.
type Batch struct {
	Records []domain.ShipmentRecord
	Report  domain.NormalizationReport
}

// Clone returns a deep copy so callers never share slices with the cache.
func (b Batch) Clone() Batch {
	out := Batch{Report: b.Report}
	out.Records = make([]domain.ShipmentRecord, len(b.Records))
	copy(out.Records, b.Records)
	out.Report.Brands = make([]string, len(b.Report.Brands))
	copy(out.Report.Brands, b.Report.Brands)
	return out
}

// Request describes one analysis run.
type Request struct {
	Data   []byte
	Format dataprocessing.Format
	Filter analytics.Filter
	// TopN bounds the slowest-records list; zero means the configured default.
	TopN int
}

// Result is everything a report renders for one run.
type Result struct {
	Report   domain.NormalizationReport `json:"report"`
	Message  string                     `json:"message"`
	Matched  int                        `json:"matched_records"`
	Summary  analytics.Summary          `json:"summary"`
	Top      []domain.ShipmentRecord    `json:"top_lead_times"`
	Records  []domain.ShipmentRecord    `json:"-"`
	CacheHit bool                       `json:"cache_hit"`
}

// Pipeline runs analyses under one configuration. It is safe for concurrent use.
type Pipeline struct {
	logger     *slog.Logger
	cfg        config.PipelineConfig
	normalizer *dataprocessing.Normalizer
	cache      *Cached
	tracer     trace.Tracer
	metrics    *Metrics
}

// New builds a pipeline for cfg.
func New(logger *slog.Logger, cfg config.PipelineConfig) (*Pipeline, error) {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	normalizer, err := dataprocessing.NewNormalizer(logger, cfg)
	if err != nil {
		return nil, err
	}

	metrics, err := NewMetrics(otel.Meter(infrastructure.MeterName))
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		logger:     infrastructure.WithComponent(logger, "pipeline"),
		cfg:        cfg,
		normalizer: normalizer,
		tracer:     otel.Tracer(TracerName),
		metrics:    metrics,
	}
	p.cache = NewCached(p.load, cfg.CacheEntries, metrics)
	return p, nil
}

// Config returns the pipeline policy.
func (p *Pipeline) Config() config.PipelineConfig {
	return p.cfg
}

// CacheStats reports the batch cache counters.
func (p *Pipeline) CacheStats() map[string]interface{} {
	return p.cache.Stats()
}

// Load normalizes data, reusing a cached batch for identical input.
func (p *Pipeline) Load(ctx context.Context, data []byte, format dataprocessing.Format) (Batch, bool, error) {
	return p.cache.Load(ctx, data, format)
}

// load is the uncached parse and normalize step.
func (p *Pipeline) load(ctx context.Context, data []byte, format dataprocessing.Format) (Batch, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.load",
		trace.WithAttributes(
			attribute.String("input.format", string(format)),
			attribute.Int("input.bytes", len(data)),
		))
	defer span.End()

	table, err := dataprocessing.ReadTable(bytes.NewReader(data), format, dataprocessing.TableOptions{
		RequiredColumns: p.cfg.RequiredColumns,
		DateColumns:     []string{config.ColumnShipDate, config.ColumnInvoiceDate},
	})
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return Batch{}, err
	}

	records, report, err := p.normalizer.Normalize(ctx, table)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return Batch{}, err
	}

	p.metrics.recordReport(ctx, report)
	span.SetAttributes(
		attribute.Int("rows.read", report.RowsRead),
		attribute.Int("rows.final", report.RowsFinal),
	)
	return Batch{Records: records, Report: report}, nil
}

// Run executes one analysis.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	ctx = infrastructure.EnsureTraceID(ctx)
	ctx, span := p.tracer.Start(ctx, "pipeline.run")
	defer span.End()

	result, err := p.run(ctx, req)
	p.metrics.recordRun(ctx, time.Since(start), err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		p.logger.WarnContext(ctx, "Analysis failed", slog.String("error", err.Error()))
		return nil, err
	}

	p.logger.InfoContext(ctx, "Analysis complete",
		slog.Int("rows_final", result.Report.RowsFinal),
		slog.Int("matched", result.Matched),
		slog.Bool("cache_hit", result.CacheHit),
		slog.Duration("duration", time.Since(start)))
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Filter.Validate(); err != nil {
		return nil, err
	}

	batch, hit, err := p.Load(ctx, req.Data, req.Format)
	if err != nil {
		return nil, err
	}

	topN := req.TopN
	if topN == 0 {
		topN = p.cfg.TopN
	}

	records := req.Filter.Apply(batch.Records)
	return &Result{
		Report:   batch.Report,
		Message:  dataprocessing.Summary(batch.Report),
		Matched:  len(records),
		Summary:  analytics.Summarize(records, p.cfg.TrendWindow),
		Top:      analytics.TopN(records, topN),
		Records:  records,
		CacheHit: hit,
	}, nil
}

// AssistantContext builds the assistant document for a finished run.
func (p *Pipeline) AssistantContext(result *Result) exporter.AssistantContext {
	return exporter.BuildAssistantContext(result.Records, result.Summary.ByBrand, p.cfg.ContextTopN)
}
