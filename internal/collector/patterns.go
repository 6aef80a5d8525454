package collector

import (
	"math"
	"time"
)

// Pattern shapes synthetic load for the mock backend. Value receives the
// series base level, the sample time and the sample's position in the
// window (0 oldest, 1 newest).
type Pattern interface {
	Value(base float64, at time.Time, progress float64) float64
	Name() string
}

func ParsePattern(name string) Pattern {
	switch name {
	case "daily":
		return DailyPattern{}
	case "weekly":
		return WeeklyPattern{}
	case "rise":
		return RampPattern{Factor: 2}
	case "fall":
		return RampPattern{Factor: 0.4}
	case "sine":
		return SineWavePattern{}
	default:
		return SteadyPattern{}
	}
}

type SteadyPattern struct{}

func (SteadyPattern) Value(base float64, _ time.Time, _ float64) float64 { return base }
func (SteadyPattern) Name() string                                       { return "steady" }

// DailyPattern raises load during business hours and lowers it overnight.
type DailyPattern struct{}

func (DailyPattern) Value(base float64, at time.Time, _ float64) float64 {
	return base * hourModifier(at.Hour())
}

func (DailyPattern) Name() string { return "daily" }

// WeeklyPattern is the daily cycle with halved weekend load.
type WeeklyPattern struct{}

func (WeeklyPattern) Value(base float64, at time.Time, _ float64) float64 {
	if wd := at.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return base * 0.5
	}
	return base * hourModifier(at.Hour())
}

func (WeeklyPattern) Name() string { return "weekly" }

func hourModifier(hour int) float64 {
	switch {
	case hour >= 9 && hour <= 11:
		return 1.4
	case hour >= 14 && hour <= 16:
		return 1.3
	case hour >= 17 && hour <= 20:
		return 1.1
	case hour <= 6:
		return 0.6
	default:
		return 1.0
	}
}

// RampPattern moves linearly from base at the oldest sample to
// base*Factor at the newest.
type RampPattern struct {
	Factor float64
}

func (p RampPattern) Value(base float64, _ time.Time, progress float64) float64 {
	return base * (1 + (p.Factor-1)*progress)
}

func (p RampPattern) Name() string {
	if p.Factor < 1 {
		return "fall"
	}
	return "rise"
}

// SineWavePattern oscillates around base.
type SineWavePattern struct {
	Period    time.Duration
	Amplitude float64
}

func (p SineWavePattern) Value(base float64, at time.Time, _ float64) float64 {
	period := p.Period
	if period <= 0 {
		period = 10 * time.Minute
	}
	amplitude := p.Amplitude
	if amplitude == 0 {
		amplitude = 20
	}
	phase := float64(at.UnixNano()) / float64(period.Nanoseconds()) * 2 * math.Pi
	return math.Max(0, base+math.Sin(phase)*amplitude)
}

func (SineWavePattern) Name() string { return "sine" }
