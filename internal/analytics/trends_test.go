package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadtimecli/pkg/contracts/domain"
)

func TestRollingTrend(t *testing.T) {
	records := []domain.ShipmentRecord{
		rec("PAPAIZ", domain.ChannelOther, "2024-01-04", 6),
		rec("PAPAIZ", domain.ChannelOther, "2024-01-01", 1),
		rec("PAPAIZ", domain.ChannelOther, "2024-01-02", 2),
		rec("PAPAIZ", domain.ChannelOther, "2024-01-03", 2),
		rec("PAPAIZ", domain.ChannelOther, "2024-01-03", 4),
		rec("LA FONTE", domain.ChannelOther, "2024-01-02", 5),
	}

	points := RollingTrend(records, 3)
	require.Len(t, points, 5)

	assert.Equal(t, "LA FONTE", points[0].Brand)
	assert.Equal(t, 5.0, points[0].RollingMean)

	papaiz := points[1:]
	wantDays := []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04"}
	wantMean := []float64{1, 2, 3, 6}
	wantRolling := []float64{1, 1.5, 2, 11.0 / 3.0}
	for i, p := range papaiz {
		assert.Equal(t, "PAPAIZ", p.Brand)
		assert.Equal(t, wantDays[i], p.Day)
		assert.InDelta(t, wantMean[i], p.Mean, 1e-9)
		assert.InDelta(t, wantRolling[i], p.RollingMean, 1e-9)
	}
	assert.Equal(t, 2, papaiz[2].Count)
}

func TestRollingTrendWindowOne(t *testing.T) {
	points := RollingTrend(sampleRecords(), 0)
	for _, p := range points {
		assert.Equal(t, p.Mean, p.RollingMean)
	}
	assert.Empty(t, RollingTrend(nil, 3))
}
