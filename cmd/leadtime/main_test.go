package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadtimecli/internal/config"
	apperrors "leadtimecli/internal/errors"
	"leadtimecli/internal/exporter"
	"leadtimecli/pkg/contracts"
	"leadtimecli/pkg/contracts/domain"
)

const sampleCSV = "desc_marca,desc_canal_venda,dat_embarque,dat_emissao_nf,nom_cidade,num_nota_fiscal\n" +
	"PAPAIZ,WEBSHOP,2024-01-01,2024-01-08,SAO PAULO,1001\n" +
	"LA FONTE,VAREJO,2024-01-02,2024-01-11,SANTOS,1003\n" +
	"ACME,WEBSHOP,2024-01-02,2024-01-11,SANTOS,1004\n"

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
		check   func(t *testing.T, opts options)
	}{
		{
			name: "defaults",
			args: []string{"-in", "data.csv"},
			check: func(t *testing.T, opts options) {
				assert.Equal(t, "data.csv", opts.In)
				assert.Equal(t, "output", opts.Out)
				assert.True(t, opts.Filter.IsZero())
				assert.False(t, opts.Workbook)
			},
		},
		{
			name: "filters",
			args: []string{"-in", "data.csv", "-from", "2024-01-01", "-to", "2024-01-31",
				"-brands", "PAPAIZ, LA FONTE", "-channels", "webshop,OTHER", "-top", "5", "-xlsx"},
			check: func(t *testing.T, opts options) {
				assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), opts.Filter.From)
				assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), opts.Filter.To)
				assert.Equal(t, []string{"PAPAIZ", "LA FONTE"}, opts.Filter.Brands)
				assert.Equal(t, []domain.ChannelGroup{domain.ChannelWebshop, domain.ChannelOther}, opts.Filter.Channels)
				assert.Equal(t, 5, opts.Top)
				assert.True(t, opts.Workbook)
			},
		},
		{
			name: "blank brands selects nothing",
			args: []string{"-in", "data.csv", "-brands", ""},
			check: func(t *testing.T, opts options) {
				assert.NotNil(t, opts.Filter.Brands)
				assert.Empty(t, opts.Filter.Brands)
				assert.Nil(t, opts.Filter.Channels)
			},
		},
		{name: "missing input", args: []string{}, wantErr: true},
		{name: "bad date", args: []string{"-in", "a.csv", "-from", "01/02/2024"}, wantErr: true},
		{name: "inverted range", args: []string{"-in", "a.csv", "-from", "2024-02-01", "-to", "2024-01-01"}, wantErr: true},
		{name: "unknown channel", args: []string{"-in", "a.csv", "-channels", "RETAIL"}, wantErr: true},
		{name: "negative top", args: []string{"-in", "a.csv", "-top", "-1"}, wantErr: true},
		{name: "unknown flag", args: []string{"-in", "a.csv", "-verbose"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseFlags(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperrors.ErrTypeValidation, apperrors.TypeOf(err))
				return
			}
			require.NoError(t, err)
			tt.check(t, opts)
		})
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "shipments.csv")
	require.NoError(t, os.WriteFile(in, []byte(sampleCSV), 0o600))
	out := filepath.Join(dir, "reports")

	var stdout bytes.Buffer
	err := run(context.Background(), config.Default(),
		[]string{"-in", in, "-out", out, "-channels", "WEBSHOP", "-xlsx"}, &stdout, testLogger())
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "1 records after filters.")
	for _, name := range []string{exporter.SummaryFileName, exporter.ContextFileName, exporter.WorkbookFileName} {
		assert.FileExists(t, filepath.Join(out, name))
	}

	matches, err := filepath.Glob(filepath.Join(out, "leadtime_filtered_*.csv"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestRunVersion(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), config.Default(), []string{"-version"}, &stdout, testLogger()))
	assert.True(t, strings.HasPrefix(stdout.String(), "leadtime v"+contracts.Version))
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	missingColumn := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(missingColumn, []byte("desc_marca,dat_emissao_nf\nPAPAIZ,2024-01-08\n"), 0o600))
	image := filepath.Join(dir, "photo.png")
	require.NoError(t, os.WriteFile(image, []byte("\x89PNG\r\n"), 0o600))

	tests := []struct {
		name     string
		in       string
		wantType apperrors.ErrorType
	}{
		{name: "missing file", in: filepath.Join(dir, "nope.csv"), wantType: apperrors.ErrTypeParsing},
		{name: "missing column", in: missingColumn, wantType: apperrors.ErrTypeSchema},
		{name: "unsupported format", in: image, wantType: apperrors.ErrTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(context.Background(), config.Default(),
				[]string{"-in", tt.in, "-out", filepath.Join(dir, "out")}, io.Discard, testLogger())
			require.Error(t, err)
			assert.Equal(t, tt.wantType, apperrors.TypeOf(err))
		})
	}
}
