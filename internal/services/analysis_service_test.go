package services

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"leadtimecli/internal/analytics"
	"leadtimecli/internal/config"
	"leadtimecli/internal/dataprocessing"
	apperrors "leadtimecli/internal/errors"
	"leadtimecli/internal/exporter"
	"leadtimecli/internal/pipeline"
	"leadtimecli/pkg/contracts"
	"leadtimecli/pkg/contracts/domain"
)

const sampleCSV = "desc_marca,desc_canal_venda,dat_embarque,dat_emissao_nf,nom_cidade,num_nota_fiscal\n" +
	"PAPAIZ,WEBSHOP,2024-01-01,2024-01-08,SAO PAULO,1001\n" +
	"PAPAIZ,HOME CENTER,2024-01-03,2024-01-04,CAMPINAS,1002\n" +
	"LA FONTE,VAREJO,2024-01-02,2024-01-11,SANTOS,1003\n" +
	"ACME,VAREJO,2024-01-02,2024-01-10,SANTOS,1004\n"

func newTestService(t *testing.T) *AnalysisService {
	t.Helper()
	p, err := pipeline.New(nil, config.DefaultPipelineConfig())
	require.NoError(t, err)
	return NewAnalysisService(p, nil)
}

func csvRequest() pipeline.Request {
	return pipeline.Request{Data: []byte(sampleCSV), Format: dataprocessing.FormatCSV}
}

func TestAnalyze(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name    string
		req     pipeline.Request
		wantErr func(t *testing.T, err error)
		matched int
	}{
		{
			name:    "all records",
			req:     csvRequest(),
			matched: 3,
		},
		{
			name: "brand filter",
			req: func() pipeline.Request {
				r := csvRequest()
				r.Filter = analytics.Filter{Brands: []string{"PAPAIZ"}}
				return r
			}(),
			matched: 2,
		},
		{
			name: "no input",
			req:  pipeline.Request{Format: dataprocessing.FormatCSV},
			wantErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrNoInput)
			},
		},
		{
			name: "missing column",
			req:  pipeline.Request{Data: []byte("desc_marca\nPAPAIZ\n"), Format: dataprocessing.FormatCSV},
			wantErr: func(t *testing.T, err error) {
				assert.True(t, apperrors.IsSchema(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Analyze(context.Background(), tt.req)
			if tt.wantErr != nil {
				require.Error(t, err)
				tt.wantErr(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.matched, result.Matched)
		})
	}
}

func TestExportCSV(t *testing.T) {
	svc := newTestService(t)

	var buf bytes.Buffer
	result, err := svc.ExportCSV(context.Background(), csvRequest(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Matched)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\ufeff"))
	assert.Equal(t, 4, strings.Count(out, "\n"))
	assert.Contains(t, out, "08/01/2024")
}

func TestAssistantContext(t *testing.T) {
	svc := newTestService(t)

	doc, err := svc.AssistantContext(context.Background(), csvRequest())
	require.NoError(t, err)
	assert.Equal(t, exporter.AssistantContextVersion, doc.SchemaVersion)
	assert.Equal(t, 3, doc.Overview.TotalRecords)
	assert.Len(t, doc.ByBrand, 2)
}

func TestWorkbook(t *testing.T) {
	svc := newTestService(t)

	var buf bytes.Buffer
	_, err := svc.Workbook(context.Background(), csvRequest(), &buf)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), exporter.SheetByBrand)
}

func TestWriteReports(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	result, err := svc.Analyze(ctx, csvRequest())
	require.NoError(t, err)

	tests := []struct {
		name     string
		workbook bool
	}{
		{name: "without workbook", workbook: false},
		{name: "with workbook", workbook: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "out")
			now := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)

			files, err := svc.WriteReports(ctx, result, ReportOptions{Dir: dir, Now: now, Workbook: tt.workbook})
			require.NoError(t, err)

			assert.Equal(t, filepath.Join(dir, "leadtime_filtered_20240305_1430.csv"), files.CSV)
			assert.FileExists(t, files.CSV)
			assert.FileExists(t, files.Context)

			raw, err := os.ReadFile(files.Summary)
			require.NoError(t, err)
			var summary map[string]interface{}
			require.NoError(t, json.Unmarshal(raw, &summary))
			assert.EqualValues(t, 3, summary["matched_records"])

			if tt.workbook {
				assert.FileExists(t, files.Workbook)
			} else {
				assert.Empty(t, files.Workbook)
			}
		})
	}
}

func TestHealthService(t *testing.T) {
	svc := newTestService(t)
	health := NewHealthService(config.AppVersion, svc, nil)

	_, err := svc.Analyze(context.Background(), csvRequest())
	require.NoError(t, err)

	status := health.HealthCheck(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, config.AppVersion, status.Version)

	cache, ok := status.Services["batch_cache"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 1, cache["entries"])

	assert.Equal(t, config.AppVersion, health.Version().Version)
	assert.Equal(t, contracts.APIVersion, health.Version().APIVersion)
	assert.Nil(t, NewHealthService("dev", nil, nil).HealthCheck(context.Background()).Services)
}

func TestRecordsAreIsolated(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Analyze(ctx, csvRequest())
	require.NoError(t, err)
	first.Records[0].Brand = "MUTATED"

	second, err := svc.Analyze(ctx, csvRequest())
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	for _, r := range second.Records {
		assert.NotEqual(t, "MUTATED", r.Brand)
	}
	assert.IsType(t, domain.ShipmentRecord{}, second.Records[0])
}
