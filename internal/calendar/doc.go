// Package calendar implements the business-day arithmetic behind the lead-time
// metric.
//
// A business day is Monday through Friday. No holiday calendar is applied:
// the metric reproduces a spreadsheet formula that only skips weekends, so a
// national holiday falling on a weekday still counts as a working day.
//
// Lead time is measured from the shipment date to the invoice date, in that
// order, even though invoices are normally issued before goods ship. When the
// shipment is later than the invoice the raw count is negative and the final
// result clamps to zero.
package calendar
