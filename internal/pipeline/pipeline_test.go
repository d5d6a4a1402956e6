package pipeline

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadtimecli/internal/analytics"
	"leadtimecli/internal/config"
	"leadtimecli/internal/dataprocessing"
	apperrors "leadtimecli/internal/errors"
	"leadtimecli/pkg/contracts/domain"
)

const sampleCSV = "desc_marca,desc_canal_venda,dat_embarque,dat_emissao_nf,nom_cidade,num_nota_fiscal\n" +
	"PAPAIZ,WEBSHOP,2024-01-01,2024-01-08,SAO PAULO,1001\n" +
	"PAPAIZ,HOME CENTER,2024-01-03,2024-01-04,CAMPINAS,1002\n" +
	"LA FONTE,VAREJO,2024-01-02,2024-01-11,SANTOS,1003\n" +
	"LA FONTE,VAREJO,2024-01-02,2024-01-11,SANTOS,1003\n" +
	"ACME,VAREJO,2024-01-02,2024-01-10,SANTOS,1004\n"

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := New(nil, config.DefaultPipelineConfig())
	require.NoError(t, err)
	return p
}

func TestRun(t *testing.T) {
	p := newTestPipeline(t)

	result, err := p.Run(context.Background(), Request{Data: []byte(sampleCSV), Format: dataprocessing.FormatCSV})
	require.NoError(t, err)

	assert.Equal(t, 5, result.Report.RowsRead)
	assert.Equal(t, 1, result.Report.Duplicates)
	assert.Equal(t, 1, result.Report.BrandFiltered)
	assert.Equal(t, 3, result.Matched)
	assert.False(t, result.CacheHit)
	assert.Contains(t, result.Message, "5 rows read")

	require.Len(t, result.Summary.ByBrand, 3)
	assert.Equal(t, domain.TotalLabel, result.Summary.ByBrand[2].Label)
	require.NotNil(t, result.Summary.Overall)
	assert.Equal(t, 3, result.Summary.Overall.Count)

	require.Len(t, result.Top, 3)
	assert.Equal(t, "1003", result.Top[0].InvoiceNumber)
	assert.Equal(t, 6, result.Top[0].LeadTimeDays)

	again, err := p.Run(context.Background(), Request{Data: []byte(sampleCSV), Format: dataprocessing.FormatCSV, TopN: 1})
	require.NoError(t, err)
	assert.True(t, again.CacheHit)
	assert.Len(t, again.Top, 1)
}

func TestRunWithFilter(t *testing.T) {
	p := newTestPipeline(t)
	from := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	result, err := p.Run(context.Background(), Request{
		Data:   []byte(sampleCSV),
		Format: dataprocessing.FormatCSV,
		Filter: analytics.Filter{From: from, Brands: []string{"PAPAIZ"}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Matched)
	assert.Equal(t, 3, result.Report.RowsFinal, "report describes the whole upload")
	assert.Equal(t, "1001", result.Records[0].InvoiceNumber)
}

func TestRunErrors(t *testing.T) {
	p := newTestPipeline(t)
	jan := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		req      Request
		wantType apperrors.ErrorType
	}{
		{
			name:     "missing columns",
			req:      Request{Data: []byte("desc_marca\nPAPAIZ\n"), Format: dataprocessing.FormatCSV},
			wantType: apperrors.ErrTypeSchema,
		},
		{
			name:     "unreadable workbook",
			req:      Request{Data: []byte("nope"), Format: dataprocessing.FormatXLSX},
			wantType: apperrors.ErrTypeParsing,
		},
		{
			name: "inverted filter",
			req: Request{Data: []byte(sampleCSV), Format: dataprocessing.FormatCSV,
				Filter: analytics.Filter{From: jan, To: jan.AddDate(0, 0, -1)}},
			wantType: apperrors.ErrTypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.Run(context.Background(), tt.req)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Equal(t, tt.wantType, apperrors.TypeOf(err))
		})
	}
}

func TestRunEmptyInput(t *testing.T) {
	p := newTestPipeline(t)

	req := Request{
		Data:   []byte("desc_marca,desc_canal_venda,dat_embarque,dat_emissao_nf,nom_cidade,num_nota_fiscal\n"),
		Format: dataprocessing.FormatCSV,
	}

	// The second run is served from the cache.
	for _, wantHit := range []bool{false, true} {
		result, err := p.Run(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, wantHit, result.CacheHit)
		assert.True(t, result.Report.EmptyInput)
		assert.Nil(t, result.Summary.Overall)
		assert.NotNil(t, result.Top)
		assert.Empty(t, result.Top)
		assert.NotNil(t, result.Report.Brands)

		body, err := json.Marshal(result)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"brands":[]`)
		assert.Contains(t, string(body), `"top_lead_times":[]`)
	}
}

func TestBatchCloneKeepsEmptySlices(t *testing.T) {
	clone := Batch{Records: []domain.ShipmentRecord{}, Report: domain.NormalizationReport{Brands: []string{}}}.Clone()
	assert.NotNil(t, clone.Records)
	assert.NotNil(t, clone.Report.Brands)
}

func TestAssistantContext(t *testing.T) {
	p := newTestPipeline(t)
	result, err := p.Run(context.Background(), Request{Data: []byte(sampleCSV), Format: dataprocessing.FormatCSV})
	require.NoError(t, err)

	doc := p.AssistantContext(result)
	assert.Equal(t, 3, doc.Overview.TotalRecords)
	assert.Len(t, doc.ByBrand, 2)
	assert.Len(t, doc.TopLeadTimes, 3)
}

func TestNewRejectsBadRules(t *testing.T) {
	cfg := config.DefaultPipelineConfig()
	cfg.ChannelRules = []config.ChannelRule{{Keyword: "X", Group: "NOPE"}}

	_, err := New(nil, cfg)
	assert.Error(t, err)
}
