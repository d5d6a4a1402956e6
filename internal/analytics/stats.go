package analytics

import (
	"math"
	"sort"

	"leadtimecli/pkg/contracts/domain"
)

// describe fills the statistics of values into a row for key. values must be
// non-empty and is not modified.
func describe(key domain.GroupKey, values []int) domain.SummaryRow {
	n := len(values)
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += float64(v)
	}
	mean := sum / float64(n)

	var median float64
	if n%2 == 1 {
		median = float64(sorted[n/2])
	} else {
		median = float64(sorted[n/2-1]+sorted[n/2]) / 2
	}

	return domain.SummaryRow{
		Key:    key,
		Label:  key.Label(),
		Count:  n,
		Mean:   mean,
		Median: median,
		StdDev: sampleStdDev(sorted, mean),
		Min:    sorted[0],
		Max:    sorted[n-1],
	}
}

// sampleStdDev uses the N-1 denominator and is undefined for fewer than two values.
func sampleStdDev(values []int, mean float64) domain.Stat {
	if len(values) < 2 {
		return domain.Undefined()
	}
	var ss float64
	for _, v := range values {
		d := float64(v) - mean
		ss += d * d
	}
	return domain.Stat(math.Sqrt(ss / float64(len(values)-1)))
}

// Mean returns the mean lead time of records, or NaN when there are none.
func Mean(records []domain.ShipmentRecord) float64 {
	if len(records) == 0 {
		return math.NaN()
	}
	sum := 0
	for _, r := range records {
		sum += r.LeadTimeDays
	}
	return float64(sum) / float64(len(records))
}
