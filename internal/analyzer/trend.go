// Package analyzer derives trend signals from metric samples.
package analyzer

import (
	"math"

	"github.com/OldStager01/scaling-advisor/pkg/models"
)

const (
	trendWindow       = 3
	increaseThreshold = 1.2
	decreaseThreshold = 0.8
)

// Trend classifies samples given in chronological order (oldest first).
// The mean of the newest min(3, n) samples is compared against the mean of
// the oldest min(3, n) samples. Fewer than two samples is always stable.
func Trend(samples []float64) models.Trend {
	n := len(samples)
	if n < 2 {
		return models.TrendStable
	}

	w := min(trendWindow, n)
	older := mean(samples[:w])
	recent := mean(samples[n-w:])

	switch {
	case recent > older*increaseThreshold:
		return models.TrendIncreasing
	case recent < older*decreaseThreshold:
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}

// TrendNewestFirst classifies samples in the order metrics backends deliver
// them, newest first.
func TrendNewestFirst(samples []float64) models.Trend {
	return Trend(reversed(samples))
}

// Summarize builds a series summary from newest-first samples. NaN and
// infinite samples are ignored; a series with no finite sample yields the
// all-zero stable summary.
func Summarize(id string, samples []float64) models.MetricSeriesSummary {
	samples = finite(samples)
	if len(samples) == 0 {
		return models.EmptySummary(id)
	}

	maxV, minV := samples[0], samples[0]
	for _, v := range samples[1:] {
		if v > maxV {
			maxV = v
		}
		if v < minV {
			minV = v
		}
	}

	return models.MetricSeriesSummary{
		ID:      id,
		Current: samples[0],
		Average: mean(samples),
		Max:     maxV,
		Min:     minV,
		Trend:   TrendNewestFirst(samples),
	}
}

func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func reversed(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[len(values)-1-i] = v
	}
	return out
}
