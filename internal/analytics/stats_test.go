package analytics

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"leadtimecli/pkg/contracts/domain"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name       string
		values     []int
		wantMean   float64
		wantMedian float64
		wantStd    float64
		wantMin    int
		wantMax    int
	}{
		{name: "even count", values: []int{4, 1, 3, 2}, wantMean: 2.5, wantMedian: 2.5, wantStd: math.Sqrt(5.0 / 3.0), wantMin: 1, wantMax: 4},
		{name: "odd count", values: []int{7, 0, 2}, wantMean: 3, wantMedian: 2, wantStd: math.Sqrt(13), wantMin: 0, wantMax: 7},
		{name: "constant", values: []int{5, 5}, wantMean: 5, wantMedian: 5, wantStd: 0, wantMin: 5, wantMax: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := append([]int(nil), tt.values...)
			row := describe(domain.GroupKey{Brand: "PAPAIZ"}, input)

			assert.Equal(t, len(tt.values), row.Count)
			assert.InDelta(t, tt.wantMean, row.Mean, 1e-9)
			assert.InDelta(t, tt.wantMedian, row.Median, 1e-9)
			assert.True(t, row.StdDev.Defined())
			assert.InDelta(t, tt.wantStd, float64(row.StdDev), 1e-9)
			assert.Equal(t, tt.wantMin, row.Min)
			assert.Equal(t, tt.wantMax, row.Max)
			assert.Equal(t, "PAPAIZ", row.Label)
			assert.Equal(t, tt.values, input, "input must not be reordered")
		})
	}
}

func TestDescribeSingleValueStdUndefined(t *testing.T) {
	row := describe(domain.GroupKey{Brand: "LA FONTE"}, []int{4})

	assert.Equal(t, 1, row.Count)
	assert.Equal(t, 4.0, row.Mean)
	assert.Equal(t, 4.0, row.Median)
	assert.False(t, row.StdDev.Defined())
}

func TestOverallMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	brands := []string{"PAPAIZ", "LA FONTE", "SILVANA CD SP"}

	for trial := 0; trial < 25; trial++ {
		n := 1 + rng.Intn(60)
		records := make([]domain.ShipmentRecord, n)
		values := make([]float64, n)
		for i := range records {
			lt := rng.Intn(20)
			records[i] = rec(brands[rng.Intn(len(brands))], domain.ChannelOther, "2024-03-01", lt)
			values[i] = float64(lt)
		}

		total, ok := AggregateOverall(records)
		assert.True(t, ok)

		var sum float64
		for _, v := range values {
			sum += v
		}
		mean := sum / float64(n)
		assert.InDelta(t, mean, total.Mean, 1e-9)

		sort.Float64s(values)
		median := values[n/2]
		if n%2 == 0 {
			median = (values[n/2-1] + values[n/2]) / 2
		}
		assert.InDelta(t, median, total.Median, 1e-9)

		if n == 1 {
			assert.False(t, total.StdDev.Defined())
			continue
		}
		var ss float64
		for _, v := range values {
			ss += (v - mean) * (v - mean)
		}
		assert.InDelta(t, math.Sqrt(ss/float64(n-1)), float64(total.StdDev), 1e-9)
		assert.Equal(t, int(values[0]), total.Min)
		assert.Equal(t, int(values[n-1]), total.Max)
	}
}

func TestMean(t *testing.T) {
	assert.True(t, math.IsNaN(Mean(nil)))
	assert.Equal(t, 4.0, Mean(sampleRecords()))
}
