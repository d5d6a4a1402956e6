package domain

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// Stat is a statistic that may be undefined, such as the sample standard
// deviation of a single value. Undefined is NaN in memory and null in JSON.
type Stat float64

// Undefined returns the undefined statistic.
func Undefined() Stat {
	return Stat(math.NaN())
}

// Defined reports whether the statistic carries a value.
func (s Stat) Defined() bool {
	return !math.IsNaN(float64(s))
}

// MarshalJSON encodes undefined as null.
func (s Stat) MarshalJSON() ([]byte, error) {
	if !s.Defined() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(s))
}

// UnmarshalJSON decodes null as undefined.
func (s *Stat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Undefined()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*s = Stat(f)
	return nil
}

// DayLayout is the layout of GroupKey.Day and of event dates in exports.
const DayLayout = "2006-01-02"

// TotalLabel is the label of the synthesized overall row.
const TotalLabel = "Total"

// GroupKey identifies one aggregation group. Only the dimensions used by the
// grouping function are set; the zero value of the others is ignored.
type GroupKey struct {
	Total      bool
	Brand      string
	Day        string
	Channel    ChannelGroup
	Weekday    time.Weekday
	HasWeekday bool
}

// Label renders the key for tables and charts.
func (k GroupKey) Label() string {
	if k.Total {
		return TotalLabel
	}
	parts := make([]string, 0, 4)
	if k.Day != "" {
		parts = append(parts, k.Day)
	}
	if k.HasWeekday {
		parts = append(parts, k.Weekday.String())
	}
	if k.Brand != "" {
		parts = append(parts, k.Brand)
	}
	if k.Channel != "" {
		parts = append(parts, string(k.Channel))
	}
	return strings.Join(parts, " / ")
}

// Less orders keys by day, weekday (Monday first), brand, then channel.
// The total row sorts after every group.
func (k GroupKey) Less(other GroupKey) bool {
	if k.Total != other.Total {
		return other.Total
	}
	if k.Day != other.Day {
		return k.Day < other.Day
	}
	if k.HasWeekday && other.HasWeekday && k.Weekday != other.Weekday {
		return mondayFirst(k.Weekday) < mondayFirst(other.Weekday)
	}
	if k.Brand != other.Brand {
		return k.Brand < other.Brand
	}
	return k.Channel < other.Channel
}

func mondayFirst(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// MarshalJSON emits only the dimensions that are set.
func (k GroupKey) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, 4)
	if k.Total {
		out["total"] = true
	}
	if k.Brand != "" {
		out["brand"] = k.Brand
	}
	if k.Day != "" {
		out["date"] = k.Day
	}
	if k.Channel != "" {
		out["channel"] = k.Channel
	}
	if k.HasWeekday {
		out["weekday"] = k.Weekday.String()
	}
	return json.Marshal(out)
}

// SummaryRow holds descriptive statistics of lead_time_days for one group.
type SummaryRow struct {
	Key    GroupKey `json:"key"`
	Label  string   `json:"label"`
	Count  int      `json:"count"`
	Mean   float64  `json:"mean"`
	Median float64  `json:"median"`
	StdDev Stat     `json:"std_dev"`
	Min    int      `json:"min"`
	Max    int      `json:"max"`
}

// TrendPoint is one day of a brand's lead-time series with its rolling mean.
type TrendPoint struct {
	Brand       string  `json:"brand"`
	Day         string  `json:"date"`
	Count       int     `json:"count"`
	Mean        float64 `json:"mean"`
	RollingMean float64 `json:"rolling_mean"`
}
