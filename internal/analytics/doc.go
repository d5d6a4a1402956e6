// Package analytics summarizes normalized shipment records.
//
// Aggregations group records with a KeyFunc (ByBrand, ByDayBrand, ByChannel,
// ByWeekdayBrand) and describe each group's lead times with count, mean,
// median, sample standard deviation, min and max. The overall "Total" row is
// always computed from the flat list of lead times, never from group rows.
//
// Query helpers produce the views a report needs: a stable top-N of the
// slowest records, a date/brand/channel Filter, and per-brand daily trends
// with a rolling mean.
//
// Every function is pure: inputs are never modified and results share no
// memory with them.
package analytics
