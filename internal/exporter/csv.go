package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"leadtimecli/internal/config"
	apperrors "leadtimecli/internal/errors"
	"leadtimecli/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FilteredFileName is the export name for a run at now, e.g.
// leadtime_filtered_20240108_1530.csv.
func FilteredFileName(now time.Time) string {
	return fmt.Sprintf("leadtime_filtered_%s.csv", now.Format("20060102_1504"))
}

// RecordExporter writes normalized records back out in the input vocabulary
// so an export can be uploaded again.
type RecordExporter struct {
	dateLayout string
}

// NewRecordExporter creates an exporter; an empty layout means day/month/year.
func NewRecordExporter(dateLayout string) *RecordExporter {
	if dateLayout == "" {
		dateLayout = config.ExportDateLayout
	}
	return &RecordExporter{dateLayout: dateLayout}
}

// Header returns the export columns.
func (e *RecordExporter) Header() []string {
	return append(config.RequiredColumns(),
		config.ColumnEventDate,
		config.ColumnChannelGroup,
		config.ColumnLeadTime,
	)
}

// Row renders one record in Header order.
func (e *RecordExporter) Row(r domain.ShipmentRecord) []string {
	return []string{
		r.Brand,
		r.ChannelRaw,
		formatDate(r.ShipDate, e.dateLayout),
		formatDate(r.InvoiceDate, e.dateLayout),
		r.City,
		r.InvoiceNumber,
		formatDate(r.EventDate, e.dateLayout),
		string(r.ChannelGroup),
		strconv.Itoa(r.LeadTimeDays),
	}
}

// WriteCSV writes the BOM, header and one line per record to w.
func (e *RecordExporter) WriteCSV(w io.Writer, records []domain.ShipmentRecord) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return apperrors.NewStorageError("failed to write BOM", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(e.Header()); err != nil {
		return apperrors.NewStorageError("failed to write headers", err)
	}
	for i, r := range records {
		if err := writer.Write(e.Row(r)); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write record %d", i), err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewStorageError("failed to flush CSV", err)
	}
	return nil
}

// WriteFile writes records to dir under FilteredFileName(now) and returns the path.
func (e *RecordExporter) WriteFile(dir string, records []domain.ShipmentRecord, now time.Time) (string, error) {
	path := filepath.Join(dir, FilteredFileName(now))
	err := writeFile(path, func(w io.Writer) error {
		return e.WriteCSV(w, records)
	})
	return path, err
}

// writeFile creates path (and its directory) and hands the file to fill.
func writeFile(path string, fill func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.NewStorageError("failed to create directory", err).WithContext("path", path)
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError("failed to create file", err).WithContext("path", path)
	}

	if err := fill(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return apperrors.NewStorageError("failed to close file", err).WithContext("path", path)
	}
	return nil
}
