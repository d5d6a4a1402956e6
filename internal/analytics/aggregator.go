package analytics

import (
	"sort"

	"leadtimecli/pkg/contracts/domain"
)

// KeyFunc assigns a record to its aggregation group.
type KeyFunc func(domain.ShipmentRecord) domain.GroupKey

// ByBrand groups by brand.
func ByBrand(r domain.ShipmentRecord) domain.GroupKey {
	return domain.GroupKey{Brand: r.Brand}
}

// ByDayBrand groups by event date and brand.
func ByDayBrand(r domain.ShipmentRecord) domain.GroupKey {
	return domain.GroupKey{Day: r.EventDate.Format(domain.DayLayout), Brand: r.Brand}
}

// ByChannel groups by channel group.
func ByChannel(r domain.ShipmentRecord) domain.GroupKey {
	return domain.GroupKey{Channel: r.ChannelGroup}
}

// ByWeekdayBrand groups by brand and the weekday of the invoice, feeding the
// weekday heatmap.
func ByWeekdayBrand(r domain.ShipmentRecord) domain.GroupKey {
	return domain.GroupKey{Brand: r.Brand, Weekday: r.EventDate.Weekday(), HasWeekday: true}
}

// AggregateBy describes the lead times of each group, ordered by GroupKey.Less.
// Empty input yields an empty, non-nil slice.
func AggregateBy(records []domain.ShipmentRecord, key KeyFunc) []domain.SummaryRow {
	groups := make(map[domain.GroupKey][]int)
	for _, r := range records {
		k := key(r)
		groups[k] = append(groups[k], r.LeadTimeDays)
	}

	rows := make([]domain.SummaryRow, 0, len(groups))
	for k, values := range groups {
		rows = append(rows, describe(k, values))
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Key.Less(rows[j].Key)
	})
	return rows
}

// AggregateOverall describes every record as one "Total" group. The second
// result is false when records is empty.
func AggregateOverall(records []domain.ShipmentRecord) (domain.SummaryRow, bool) {
	if len(records) == 0 {
		return domain.SummaryRow{}, false
	}
	values := make([]int, len(records))
	for i, r := range records {
		values[i] = r.LeadTimeDays
	}
	return describe(domain.GroupKey{Total: true}, values), true
}

// WithTotal returns a copy of rows with the overall row of records appended.
func WithTotal(rows []domain.SummaryRow, records []domain.ShipmentRecord) []domain.SummaryRow {
	out := make([]domain.SummaryRow, len(rows), len(rows)+1)
	copy(out, rows)
	if total, ok := AggregateOverall(records); ok {
		out = append(out, total)
	}
	return out
}

// Summary bundles every grouping a report shows.
type Summary struct {
	Overall        *domain.SummaryRow  `json:"overall"`
	ByBrand        []domain.SummaryRow `json:"by_brand"`
	ByDayBrand     []domain.SummaryRow `json:"by_day_brand"`
	ByChannel      []domain.SummaryRow `json:"by_channel"`
	ByWeekdayBrand []domain.SummaryRow `json:"by_weekday_brand"`
	Trend          []domain.TrendPoint `json:"trend"`
}

// Summarize computes all groupings of records. ByBrand carries the Total row.
func Summarize(records []domain.ShipmentRecord, trendWindow int) Summary {
	s := Summary{
		ByBrand:        WithTotal(AggregateBy(records, ByBrand), records),
		ByDayBrand:     AggregateBy(records, ByDayBrand),
		ByChannel:      AggregateBy(records, ByChannel),
		ByWeekdayBrand: AggregateBy(records, ByWeekdayBrand),
		Trend:          RollingTrend(records, trendWindow),
	}
	if total, ok := AggregateOverall(records); ok {
		s.Overall = &total
	}
	return s
}
