// Package dataprocessing turns an uploaded shipment batch into normalized
// lead-time records.
//
// # Architecture
//
// The package is organized into four components:
//
//  1. Parser: reads CSV or XLSX input into a domain.RawTable
//  2. DateParser: coerces date cells using an ordered list of layouts
//  3. ChannelClassifier: maps free-text sales channels to a ChannelGroup
//  4. Normalizer: validates the schema, deduplicates invoices, fills missing
//     ship dates, applies the brand allow-list and computes lead times
//
// # Usage
//
//	table, err := dataprocessing.ReadTable(file, dataprocessing.FormatCSV, dataprocessing.DefaultTableOptions())
//	if err != nil {
//	    return err
//	}
//	normalizer, err := dataprocessing.NewNormalizer(logger, cfg.Pipeline)
//	if err != nil {
//	    return err
//	}
//	records, report, err := normalizer.Normalize(ctx, table)
//
// # Data Flow
//
//	CSV/XLSX → Parser → RawTable → Normalizer → []ShipmentRecord + NormalizationReport
//
// # Error Handling
//
// Unreadable input is a PARSING AppError and a missing required column is a
// SCHEMA AppError carrying the missing names. Problems confined to a single
// row (bad dates, duplicates, unknown brands) are never errors; they are
// counted in the NormalizationReport.
package dataprocessing
