// Package exporter writes lead-time results for people and downstream tools.
//
// RecordExporter writes the filtered records as CSV with a UTF-8 BOM for
// Excel, the original column names plus the derived data, canal_agrupado
// and leadtime_dias columns, and day/month/year dates. WriteWorkbook renders
// the summary tables as an XLSX workbook, one sheet per grouping.
// BuildAssistantContext produces the versioned JSON document handed to the
// analysis assistant.
//
// Example usage:
//
//	exp := exporter.NewRecordExporter(cfg.Pipeline.ExportDateLayout)
//	path, err := exp.WriteFile(outDir, records, time.Now())
//
//	ctxDoc := exporter.BuildAssistantContext(records, summary.ByBrand, 5)
//	err = exporter.WriteJSONFile(filepath.Join(outDir, "leadtime_context.json"), ctxDoc)
package exporter
