package dataprocessing

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadtimecli/internal/config"
	apperrors "leadtimecli/internal/errors"
	"leadtimecli/pkg/contracts/domain"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n, err := NewNormalizer(nil, config.DefaultPipelineConfig())
	require.NoError(t, err)
	return n
}

func tableFrom(t *testing.T, csvText string) *domain.RawTable {
	t.Helper()
	table, err := ReadCSV(strings.NewReader(csvText))
	require.NoError(t, err)
	return table
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalize(t *testing.T) {
	table := tableFrom(t, sampleHeader+"\n"+
		"PAPAIZ,Webshop B2C,2024-01-01,2024-01-08,SAO PAULO,1001\n"+
		"LA FONTE,home center leroy,2024-01-03,2024-01-04,CAMPINAS,1002\n"+
		"PAPAIZ,Distribuidor,2024-01-01,2024-01-09,RIO,1001\n"+
		"SILVANA CD SP,VAREJO,,05/01/2024,SANTOS,1003\n"+
		"ACME,WEBSHOP,2024-01-01,2024-01-02,RECIFE,1004\n"+
		"PAPAIZ,WEBSHOP,2024-01-01,not a date,NATAL,1005\n"+
		" PAPAIZ ,WEBSHOP,garbage,2024-01-10,BELEM,1006\n")

	records, report, err := newTestNormalizer(t).Normalize(context.Background(), table)
	require.NoError(t, err)

	assert.Equal(t, domain.NormalizationReport{
		RowsRead:           7,
		Duplicates:         1,
		InvalidDates:       1,
		BrandFiltered:      1,
		ShipDatesDefaulted: 2,
		RowsFinal:          4,
		Brands:             []string{"LA FONTE", "PAPAIZ", "SILVANA CD SP"},
	}, report)
	assert.Equal(t, report.RowsRead, report.Duplicates+report.InvalidDates+report.BrandFiltered+report.RowsFinal)

	require.Len(t, records, 4)
	assert.Equal(t, []string{"1001", "1002", "1003", "1006"}, []string{
		records[0].InvoiceNumber, records[1].InvoiceNumber, records[2].InvoiceNumber, records[3].InvoiceNumber,
	})

	first := records[0]
	assert.Equal(t, "PAPAIZ", first.Brand)
	assert.Equal(t, "SAO PAULO", first.City)
	assert.Equal(t, domain.ChannelWebshop, first.ChannelGroup)
	assert.Equal(t, 5, first.LeadTimeDays)
	assert.Equal(t, date(2024, 1, 8), first.EventDate)
	assert.False(t, first.ShipDateDefaulted)

	assert.Equal(t, domain.ChannelHomeCenter, records[1].ChannelGroup)
	assert.Equal(t, 0, records[1].LeadTimeDays)

	defaulted := records[2]
	assert.Equal(t, domain.ChannelOther, defaulted.ChannelGroup)
	assert.True(t, defaulted.ShipDateDefaulted)
	assert.Equal(t, defaulted.InvoiceDate, defaulted.ShipDate)
	assert.Equal(t, date(2024, 1, 5), defaulted.InvoiceDate)
	assert.Equal(t, 0, defaulted.LeadTimeDays)

	assert.Equal(t, "PAPAIZ", records[3].Brand)

	validate := validator.New()
	for _, r := range records {
		assert.NoError(t, validate.Struct(r))
	}
}

func TestNormalizeMissingColumns(t *testing.T) {
	table := tableFrom(t, "desc_marca,desc_canal_venda,dat_embarque,dat_emissao_nf\nPAPAIZ,WEBSHOP,2024-01-01,2024-01-08\n")

	records, _, err := newTestNormalizer(t).Normalize(context.Background(), table)
	require.Error(t, err)
	assert.Nil(t, records)
	assert.True(t, apperrors.IsSchema(err))
	assert.Equal(t, []string{"nom_cidade", "num_nota_fiscal"}, apperrors.MissingColumns(err))
}

func TestNormalizeEmptyInput(t *testing.T) {
	records, report, err := newTestNormalizer(t).Normalize(context.Background(), tableFrom(t, sampleHeader+"\n"))
	require.NoError(t, err)

	assert.NotNil(t, records)
	assert.Empty(t, records)
	assert.True(t, report.EmptyInput)
	assert.Equal(t, 0, report.RowsRead)
}

func TestNormalizeNilTable(t *testing.T) {
	_, _, err := newTestNormalizer(t).Normalize(context.Background(), nil)
	assert.True(t, apperrors.IsSchema(err))
}

func TestNormalizeDeduplication(t *testing.T) {
	tests := []struct {
		name       string
		rows       string
		wantKept   []string
		wantDupes  int
		wantCities []string
	}{
		{
			name:       "first occurrence wins",
			rows:       "PAPAIZ,WEBSHOP,2024-01-01,2024-01-08,A,7\nPAPAIZ,WEBSHOP,2024-01-01,2024-01-08,B,7\nPAPAIZ,WEBSHOP,2024-01-01,2024-01-08,C,7\n",
			wantKept:   []string{"7"},
			wantDupes:  2,
			wantCities: []string{"A"},
		},
		{
			name:       "blank invoice numbers share one key",
			rows:       "PAPAIZ,WEBSHOP,2024-01-01,2024-01-08,A,\nPAPAIZ,WEBSHOP,2024-01-01,2024-01-08,B, \n",
			wantKept:   []string{""},
			wantDupes:  1,
			wantCities: []string{"A"},
		},
		{
			name:       "dedup runs before date validation",
			rows:       "PAPAIZ,WEBSHOP,2024-01-01,bad,A,9\nPAPAIZ,WEBSHOP,2024-01-01,2024-01-08,B,9\n",
			wantKept:   []string{},
			wantDupes:  1,
			wantCities: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, report, err := newTestNormalizer(t).Normalize(context.Background(), tableFrom(t, sampleHeader+"\n"+tt.rows))
			require.NoError(t, err)

			numbers := make([]string, 0, len(records))
			cities := make([]string, 0, len(records))
			for _, r := range records {
				numbers = append(numbers, r.InvoiceNumber)
				cities = append(cities, r.City)
			}
			assert.Equal(t, tt.wantKept, numbers)
			assert.Equal(t, tt.wantCities, cities)
			assert.Equal(t, tt.wantDupes, report.Duplicates)
		})
	}
}

func TestNormalizeColumnOrderIndependent(t *testing.T) {
	table := tableFrom(t, "num_nota_fiscal,nom_cidade,dat_emissao_nf,dat_embarque,desc_canal_venda,desc_marca,extra\n"+
		"42,SAO PAULO,2024-01-08,2024-01-01,WEBSHOP,LA FONTE,ignored\n")

	records, _, err := newTestNormalizer(t).Normalize(context.Background(), table)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "LA FONTE", records[0].Brand)
	assert.Equal(t, 5, records[0].LeadTimeDays)
}

func TestNormalizeCustomPolicy(t *testing.T) {
	cfg := config.DefaultPipelineConfig()
	cfg.Brands = []string{"ACME"}
	cfg.ChannelRules = []config.ChannelRule{{Keyword: "MARKETPLACE", Group: "WEBSHOP"}}

	n, err := NewNormalizer(nil, cfg)
	require.NoError(t, err)

	records, report, err := n.Normalize(context.Background(), tableFrom(t, sampleHeader+"\n"+
		"ACME,Marketplace X,2024-01-01,2024-01-08,A,1\n"+
		"PAPAIZ,WEBSHOP,2024-01-01,2024-01-08,B,2\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.ChannelWebshop, records[0].ChannelGroup)
	assert.Equal(t, 1, report.BrandFiltered)
}

func TestNewNormalizerRejectsBadRules(t *testing.T) {
	cfg := config.DefaultPipelineConfig()
	cfg.ChannelRules = []config.ChannelRule{{Keyword: "X", Group: "NOPE"}}

	_, err := NewNormalizer(nil, cfg)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeConfig, apperrors.TypeOf(err))
}

func TestNewNormalizerRequiresRoleColumns(t *testing.T) {
	tests := []struct {
		name     string
		required []string
		wantErr  bool
	}{
		{name: "default set", required: nil},
		{name: "extra column", required: append(config.RequiredColumns(), "cod_cliente")},
		{name: "invoice date omitted", required: []string{config.ColumnBrand, config.ColumnChannel,
			config.ColumnShipDate, config.ColumnCity, config.ColumnInvoiceNumber}, wantErr: true},
		{name: "invoice date renamed", required: []string{config.ColumnBrand, config.ColumnChannel,
			config.ColumnShipDate, "data_nf", config.ColumnCity, config.ColumnInvoiceNumber}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultPipelineConfig()
			cfg.RequiredColumns = tt.required

			_, err := NewNormalizer(nil, cfg)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrTypeConfig, apperrors.TypeOf(err))
			assert.Contains(t, err.Error(), config.ColumnInvoiceDate)
		})
	}
}

func TestNormalizeMinutePrecisionDates(t *testing.T) {
	records, report, err := newTestNormalizer(t).Normalize(context.Background(), tableFrom(t, sampleHeader+"\n"+
		"PAPAIZ,WEBSHOP,2024-01-01 10:30,2024-01-08 10:30,SP,1\n"+
		"PAPAIZ,WEBSHOP,2024-01-01T09:15,2024-01-08T17:45,SP,2\n"))
	require.NoError(t, err)

	assert.Equal(t, 0, report.InvalidDates)
	assert.Equal(t, 0, report.ShipDatesDefaulted)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, 5, r.LeadTimeDays)
		assert.Equal(t, date(2024, time.January, 8), r.EventDate)
	}
}

func TestNormalizeHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := newTestNormalizer(t).Normalize(ctx, tableFrom(t, sampleHeader+"\nPAPAIZ,WEBSHOP,2024-01-01,2024-01-08,A,1\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "The file has no data rows.", Summary(domain.NormalizationReport{EmptyInput: true}))

	msg := Summary(domain.NormalizationReport{RowsRead: 3, Duplicates: 1, RowsFinal: 2, Brands: []string{"PAPAIZ"}})
	assert.Contains(t, msg, "3 rows read")
	assert.Contains(t, msg, "Brands: PAPAIZ.")
}
