package analytics

import (
	"sort"

	"leadtimecli/pkg/contracts/domain"
)

// RollingTrend returns, per brand, the mean lead time of each event date and
// a rolling mean over the last window dates of that brand. The first points
// average whatever history exists. Points are ordered by brand, then date.
func RollingTrend(records []domain.ShipmentRecord, window int) []domain.TrendPoint {
	if window < 1 {
		window = 1
	}

	daily := AggregateBy(records, ByDayBrand)
	byBrand := make(map[string][]domain.SummaryRow)
	brands := make([]string, 0)
	for _, row := range daily {
		if _, seen := byBrand[row.Key.Brand]; !seen {
			brands = append(brands, row.Key.Brand)
		}
		byBrand[row.Key.Brand] = append(byBrand[row.Key.Brand], row)
	}
	sort.Strings(brands)

	points := make([]domain.TrendPoint, 0, len(daily))
	for _, brand := range brands {
		rows := byBrand[brand]
		for i, row := range rows {
			start := i - window + 1
			if start < 0 {
				start = 0
			}
			sum := 0.0
			for _, prev := range rows[start : i+1] {
				sum += prev.Mean
			}
			points = append(points, domain.TrendPoint{
				Brand:       brand,
				Day:         row.Key.Day,
				Count:       row.Count,
				Mean:        row.Mean,
				RollingMean: sum / float64(i+1-start),
			})
		}
	}
	return points
}
