package pipeline

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apperrors "leadtimecli/internal/errors"
	"leadtimecli/pkg/contracts/domain"
)

// Metrics holds the pipeline's instruments.
type Metrics struct {
	runs          metric.Int64Counter
	runDuration   metric.Float64Histogram
	rows          metric.Int64Counter
	cacheRequests metric.Int64Counter
}

// NewMetrics creates the pipeline instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	runs, err := meter.Int64Counter(
		"leadtime_pipeline_runs_total",
		metric.WithDescription("Total number of lead-time analyses"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"leadtime_pipeline_duration_seconds",
		metric.WithDescription("Lead-time analysis duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	rows, err := meter.Int64Counter(
		"leadtime_rows_total",
		metric.WithDescription("Input rows by normalization outcome"),
	)
	if err != nil {
		return nil, err
	}

	cacheRequests, err := meter.Int64Counter(
		"leadtime_cache_requests_total",
		metric.WithDescription("Normalized batch cache lookups"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		runs:          runs,
		runDuration:   runDuration,
		rows:          rows,
		cacheRequests: cacheRequests,
	}, nil
}

func (m *Metrics) recordRun(ctx context.Context, d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	attrs := metric.WithAttributes(
		attribute.String("status", status),
		attribute.String("error.type", string(apperrors.TypeOf(err))),
	)
	m.runs.Add(ctx, 1, attrs)
	m.runDuration.Record(ctx, d.Seconds(), attrs)
}

func (m *Metrics) recordReport(ctx context.Context, report domain.NormalizationReport) {
	if m == nil {
		return
	}
	outcomes := []struct {
		name  string
		count int
	}{
		{"duplicate", report.Duplicates},
		{"invalid_date", report.InvalidDates},
		{"brand_filtered", report.BrandFiltered},
		{"kept", report.RowsFinal},
	}
	for _, o := range outcomes {
		if o.count == 0 {
			continue
		}
		m.rows.Add(ctx, int64(o.count), metric.WithAttributes(attribute.String("outcome", o.name)))
	}
}

func (m *Metrics) recordCache(ctx context.Context, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheRequests.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
