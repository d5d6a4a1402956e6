package calendar

import (
	"time"
)

// DateOf truncates t to its calendar date at UTC midnight, keeping the
// wall-clock date of t's own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsBusinessDay reports whether t falls Monday through Friday.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// BusinessDays counts business days in the half-open range [start, end).
// When end is before start the range [end, start) is counted and the result
// is negated, so BusinessDays(a, b) == -BusinessDays(b, a).
func BusinessDays(start, end time.Time) int {
	start, end = DateOf(start), DateOf(end)
	if end.Before(start) {
		return -BusinessDays(end, start)
	}

	days := int(end.Sub(start).Hours() / 24)
	weeks := days / 7
	count := weeks * 5

	cursor := start.AddDate(0, 0, weeks*7)
	for i := 0; i < days%7; i++ {
		if IsBusinessDay(cursor) {
			count++
		}
		cursor = cursor.AddDate(0, 0, 1)
	}
	return count
}

// invoiceDecrement is 0 when the invoice falls on Sunday or Monday and 1 on
// every other weekday.
func invoiceDecrement(invoice time.Time) int {
	switch invoice.Weekday() {
	case time.Sunday, time.Monday:
		return 0
	default:
		return 1
	}
}

// LeadTime returns the business-day lead time between a shipment and its
// invoice. The result is never negative. A zero date stands for a missing
// value and yields 0.
func LeadTime(ship, invoice time.Time) int {
	if ship.IsZero() || invoice.IsZero() {
		return 0
	}
	if SameDate(ship, invoice) {
		return 0
	}

	days := BusinessDays(ship, invoice) - invoiceDecrement(invoice)
	if days < 0 {
		return 0
	}
	return days
}
