package exporter

import (
	"math"
	"strconv"
	"time"

	"leadtimecli/pkg/contracts/domain"
)

// round2 rounds half away from zero to two decimals.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// formatFloat formats a float with exactly 2 decimal places
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatStat leaves undefined statistics blank
func formatStat(s domain.Stat) string {
	if !s.Defined() {
		return ""
	}
	return formatFloat(float64(s))
}

func formatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}
