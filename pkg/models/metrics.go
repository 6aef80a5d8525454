package models

type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// MetricSeriesSummary condenses one queried series over the metrics window.
type MetricSeriesSummary struct {
	ID      string  `json:"id"`
	Current float64 `json:"current"`
	Average float64 `json:"average"`
	Max     float64 `json:"max"`
	Min     float64 `json:"min"`
	Trend   Trend   `json:"trend"`
}

// EmptySummary is the fail-open value used when a series returned no samples.
func EmptySummary(id string) MetricSeriesSummary {
	return MetricSeriesSummary{ID: id, Trend: TrendStable}
}

// MetricsSnapshot holds one summary per series id.
type MetricsSnapshot map[string]MetricSeriesSummary

func (s MetricsSnapshot) Get(id string) MetricSeriesSummary {
	if summary, ok := s[id]; ok {
		return summary
	}
	return EmptySummary(id)
}
