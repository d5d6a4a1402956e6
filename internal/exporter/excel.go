package exporter

import (
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"leadtimecli/internal/analytics"
	apperrors "leadtimecli/internal/errors"
	"leadtimecli/pkg/contracts/domain"
)

// Workbook sheet names.
const (
	SheetByBrand   = "By Brand"
	SheetByDay     = "By Day"
	SheetByChannel = "By Channel"
	SheetWeekday   = "Weekday"
	SheetTrend     = "Trend"
	SheetTop       = "Top Lead Times"
)

// WorkbookFileName is the default name of the summary workbook.
const WorkbookFileName = "leadtime_summary.xlsx"

var summaryHeader = []interface{}{"Group", "Records", "Mean", "Median", "Std Dev", "Min", "Max"}

// WriteWorkbook renders summary and the top records into an XLSX workbook.
func WriteWorkbook(w io.Writer, summary analytics.Summary, top []domain.ShipmentRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return apperrors.NewStorageError("failed to create header style", err)
	}

	sheets := []struct {
		name string
		rows []domain.SummaryRow
	}{
		{SheetByBrand, summary.ByBrand},
		{SheetByDay, summary.ByDayBrand},
		{SheetByChannel, summary.ByChannel},
		{SheetWeekday, summary.ByWeekdayBrand},
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return apperrors.NewStorageError("failed to rename sheet", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return apperrors.NewStorageError("failed to add sheet", err).WithContext("sheet", s.name)
		}
		if err := writeSummarySheet(f, s.name, s.rows, headerStyle); err != nil {
			return err
		}
	}

	if err := writeTrendSheet(f, summary.Trend, headerStyle); err != nil {
		return err
	}
	if err := writeTopSheet(f, top, headerStyle); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return apperrors.NewStorageError("failed to write workbook", err)
	}
	return nil
}

// WriteWorkbookFile writes the workbook to path.
func WriteWorkbookFile(path string, summary analytics.Summary, top []domain.ShipmentRecord) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteWorkbook(w, summary, top)
	})
}

func writeSummarySheet(f *excelize.File, sheet string, rows []domain.SummaryRow, headerStyle int) error {
	table := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		var std interface{} = ""
		if r.StdDev.Defined() {
			std = round2(float64(r.StdDev))
		}
		table = append(table, []interface{}{
			r.Label, r.Count, round2(r.Mean), round2(r.Median), std, r.Min, r.Max,
		})
	}
	return writeSheet(f, sheet, summaryHeader, table, headerStyle)
}

func writeTrendSheet(f *excelize.File, points []domain.TrendPoint, headerStyle int) error {
	if _, err := f.NewSheet(SheetTrend); err != nil {
		return apperrors.NewStorageError("failed to add sheet", err).WithContext("sheet", SheetTrend)
	}
	table := make([][]interface{}, 0, len(points))
	for _, p := range points {
		table = append(table, []interface{}{p.Day, p.Brand, p.Count, round2(p.Mean), round2(p.RollingMean)})
	}
	return writeSheet(f, SheetTrend,
		[]interface{}{"Date", "Brand", "Records", "Mean", "Rolling Mean"}, table, headerStyle)
}

func writeTopSheet(f *excelize.File, top []domain.ShipmentRecord, headerStyle int) error {
	if _, err := f.NewSheet(SheetTop); err != nil {
		return apperrors.NewStorageError("failed to add sheet", err).WithContext("sheet", SheetTop)
	}
	table := make([][]interface{}, 0, len(top))
	for _, r := range top {
		table = append(table, []interface{}{
			r.InvoiceNumber, r.Brand, string(r.ChannelGroup), r.City,
			r.EventDate.Format(domain.DayLayout), r.LeadTimeDays,
		})
	}
	return writeSheet(f, SheetTop,
		[]interface{}{"Invoice", "Brand", "Channel", "City", "Date", "Lead Time (days)"}, table, headerStyle)
}

func writeSheet(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return apperrors.NewStorageError("failed to write header", err).WithContext("sheet", sheet)
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return apperrors.NewStorageError("invalid header width", err)
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return apperrors.NewStorageError("failed to style header", err).WithContext("sheet", sheet)
	}

	for i, row := range rows {
		cell := "A" + strconv.Itoa(i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return apperrors.NewStorageError("failed to write row", err).WithContext("sheet", sheet)
		}
	}
	return nil
}
