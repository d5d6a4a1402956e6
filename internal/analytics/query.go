package analytics

import (
	"sort"
	"time"

	"github.com/samber/lo"

	apperrors "leadtimecli/internal/errors"
	"leadtimecli/pkg/contracts/domain"
)

// TopN returns the n records with the longest lead time. Ties keep input
// order. n larger than the input returns every record; n <= 0 returns none.
func TopN(records []domain.ShipmentRecord, n int) []domain.ShipmentRecord {
	return TopNBy(records, n, func(r domain.ShipmentRecord) float64 {
		return float64(r.LeadTimeDays)
	}, true)
}

// TopNBy sorts a copy of items by key with a stable sort and returns the
// first n.
func TopNBy[T any](items []T, n int, key func(T) float64, descending bool) []T {
	if n <= 0 {
		return []T{}
	}
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if descending {
			return key(sorted[i]) > key(sorted[j])
		}
		return key(sorted[i]) < key(sorted[j])
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n:n]
}

// Filter restricts records by event date range and by brand and channel
// selections. A zero From or To leaves that side open. A nil selection
// places no constraint, while an empty non-nil selection matches nothing.
type Filter struct {
	From     time.Time
	To       time.Time
	Brands   []string
	Channels []domain.ChannelGroup
}

// Validate rejects inverted ranges and unknown channel groups.
func (f Filter) Validate() error {
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return apperrors.NewAppValidationError("filter end date is before its start date").
			WithContext("from", f.From.Format(domain.DayLayout)).
			WithContext("to", f.To.Format(domain.DayLayout))
	}
	for _, c := range f.Channels {
		if !c.Valid() {
			return apperrors.NewAppValidationError("unknown channel group " + string(c))
		}
	}
	return nil
}

// IsZero reports whether the filter keeps every record.
func (f Filter) IsZero() bool {
	return f.From.IsZero() && f.To.IsZero() && f.Brands == nil && f.Channels == nil
}

// Apply returns the matching records in input order.
func (f Filter) Apply(records []domain.ShipmentRecord) []domain.ShipmentRecord {
	from := dateOnly(f.From)
	to := dateOnly(f.To)

	var brands map[string]struct{}
	if f.Brands != nil {
		brands = lo.SliceToMap(f.Brands, func(b string) (string, struct{}) { return b, struct{}{} })
	}
	var channels map[domain.ChannelGroup]struct{}
	if f.Channels != nil {
		channels = lo.SliceToMap(f.Channels, func(c domain.ChannelGroup) (domain.ChannelGroup, struct{}) { return c, struct{}{} })
	}

	return lo.Filter(records, func(r domain.ShipmentRecord, _ int) bool {
		day := dateOnly(r.EventDate)
		if !from.IsZero() && day.Before(from) {
			return false
		}
		if !to.IsZero() && day.After(to) {
			return false
		}
		if brands != nil {
			if _, ok := brands[r.Brand]; !ok {
				return false
			}
		}
		if channels != nil {
			if _, ok := channels[r.ChannelGroup]; !ok {
				return false
			}
		}
		return true
	})
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Brands lists the distinct brands of records in first-seen order.
func Brands(records []domain.ShipmentRecord) []string {
	return lo.Uniq(lo.Map(records, func(r domain.ShipmentRecord, _ int) string { return r.Brand }))
}

// Period returns the earliest and latest event dates of records.
func Period(records []domain.ShipmentRecord) (start, end time.Time, ok bool) {
	if len(records) == 0 {
		return time.Time{}, time.Time{}, false
	}
	start, end = records[0].EventDate, records[0].EventDate
	for _, r := range records[1:] {
		if r.EventDate.Before(start) {
			start = r.EventDate
		}
		if r.EventDate.After(end) {
			end = r.EventDate
		}
	}
	return start, end, true
}
