// Package http implements the HTTP handlers of the lead-time API. Handlers
// stay thin: they take the input file and filter parameters off the request,
// call the analysis service and render the outcome.
//
// # Routes
//
//	POST /api/v1/leadtime/analyze   JSON result: report, summary, top lead times
//	POST /api/v1/leadtime/export    filtered records as CSV (UTF-8 BOM)
//	POST /api/v1/leadtime/context   assistant context document
//	POST /api/v1/leadtime/workbook  XLSX summary workbook
//	GET  /api/health                liveness and batch cache counters
//
// # Input
//
// The file is either the raw request body or the multipart field "file".
// Its format comes from the file name, then the content type, then a sniff
// for the zip signature of XLSX workbooks. Filters are query parameters:
//
//	from, to    inclusive event dates as YYYY-MM-DD
//	brand       repeatable; present but blank selects nothing
//	channel     repeatable; WEBSHOP, HOME_CENTER or OTHER
//	top         size of the slowest-records list
//
// # Errors
//
// Every failure is an RFC 7807 problem document written by
// errors.ErrorHandler. A missing required column answers 422 and unreadable
// input answers 400.
package http
