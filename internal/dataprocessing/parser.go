package dataprocessing

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"leadtimecli/internal/config"
	apperrors "leadtimecli/internal/errors"
	"leadtimecli/pkg/contracts/domain"
)

// Format identifies the encoding of an uploaded batch.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ContentTypeXLSX is the media type of Office Open XML workbooks.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	utf8BOM  = []byte{0xEF, 0xBB, 0xBF}
	zipMagic = []byte("PK\x03\x04")
)

// TableOptions tells the readers which sheet to pick and which cells hold dates.
type TableOptions struct {
	// RequiredColumns selects the first worksheet whose header row carries all of them.
	RequiredColumns []string
	// DateColumns are converted from Excel serial numbers to text.
	DateColumns []string
}

// DefaultTableOptions matches the default pipeline configuration.
func DefaultTableOptions() TableOptions {
	return TableOptions{
		RequiredColumns: config.RequiredColumns(),
		DateColumns:     []string{config.ColumnShipDate, config.ColumnInvoiceDate},
	}
}

// DetectFormat picks the input format from a file name or content type, and
// falls back to sniffing the first bytes for a zip signature.
func DetectFormat(name, contentType string, head []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	}

	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	switch mediaType {
	case "text/csv", "text/plain", "application/csv":
		return FormatCSV, nil
	case ContentTypeXLSX:
		return FormatXLSX, nil
	}

	if bytes.HasPrefix(head, zipMagic) {
		return FormatXLSX, nil
	}
	if mediaType == "" || mediaType == "application/octet-stream" {
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported input format %q", mediaType)
}

// ReadTable decodes r according to format.
func ReadTable(r io.Reader, format Format, opts TableOptions) (*domain.RawTable, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatXLSX:
		return ReadXLSX(r, opts)
	default:
		return nil, apperrors.NewParsingError(fmt.Sprintf("unsupported input format %q", format), nil)
	}
}

// ReadCSV reads a comma separated batch. A leading UTF-8 byte order mark is
// skipped and blank lines are ignored. An empty stream yields an empty table.
func ReadCSV(r io.Reader) (*domain.RawTable, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	table := &domain.RawTable{}
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return table, nil
	}
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read CSV header", err)
	}
	table.Header = trimCells(header)

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("failed to read CSV row", err)
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// ReadXLSX reads the first worksheet whose header row contains every required
// column. When no sheet qualifies the first sheet is returned so the
// normalizer can report which columns are missing.
func ReadXLSX(r io.Reader, opts TableOptions) (*domain.RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err)
	}
	defer f.Close()

	var fallback *domain.RawTable
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheet), err)
		}

		table := sheetTable(rows)
		if fallback == nil {
			fallback = table
		}
		if hasColumns(table.Header, opts.RequiredColumns) {
			convertSerialDates(table, opts.DateColumns)
			return table, nil
		}
	}

	if fallback == nil {
		return &domain.RawTable{}, nil
	}
	convertSerialDates(fallback, opts.DateColumns)
	return fallback, nil
}

// sheetTable uses the first non-blank row as header and drops blank rows.
func sheetTable(rows [][]string) *domain.RawTable {
	table := &domain.RawTable{}
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if table.Header == nil {
			table.Header = trimCells(row)
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func hasColumns(header, required []string) bool {
	if len(header) == 0 {
		return false
	}
	return lo.Every(header, required)
}

func isBlankRow(row []string) bool {
	return lo.EveryBy(row, func(cell string) bool {
		return strings.TrimSpace(cell) == ""
	})
}

func trimCells(row []string) []string {
	return lo.Map(row, func(cell string, _ int) string {
		return strings.TrimSpace(cell)
	})
}

// convertSerialDates rewrites numeric cells of the date columns, which is how
// Excel stores dates, into the canonical text layout.
func convertSerialDates(table *domain.RawTable, columns []string) {
	index := table.ColumnIndex()
	for _, name := range columns {
		col, ok := index[name]
		if !ok {
			continue
		}
		for _, row := range table.Rows {
			if col >= len(row) {
				continue
			}
			serial, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
			if err != nil || serial <= 0 {
				continue
			}
			t, err := excelize.ExcelDateToTime(serial, false)
			if err != nil {
				continue
			}
			row[col] = t.Format("2006-01-02 15:04:05")
		}
	}
}
