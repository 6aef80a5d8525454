package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/OldStager01/scaling-advisor/internal/analyzer"
	"github.com/OldStager01/scaling-advisor/internal/logger"
	"github.com/OldStager01/scaling-advisor/pkg/models"
)

const DefaultWindow = 30 * time.Minute

// Aggregator reads the configured series over a trailing window and
// summarizes each one.
type Aggregator struct {
	backend Backend
	series  []SeriesSpec
	window  time.Duration
	now     func() time.Time
}

type AggregatorConfig struct {
	Backend Backend
	Series  []SeriesSpec
	Window  time.Duration
	Now     func() time.Time
}

func NewAggregator(cfg AggregatorConfig) *Aggregator {
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Aggregator{
		backend: cfg.Backend,
		series:  cfg.Series,
		window:  cfg.Window,
		now:     cfg.Now,
	}
}

func (a *Aggregator) Window() time.Duration {
	return a.window
}

func (a *Aggregator) SeriesIDs() []string {
	return lo.Map(a.series, func(s SeriesSpec, _ int) string { return s.ID })
}

// Aggregate issues one batched query for every configured series over the
// window ending now. A non-positive window uses the configured default.
// Series the backend returned nothing for get the empty summary. Backend
// errors are returned as-is; nothing is retried here.
func (a *Aggregator) Aggregate(ctx context.Context, window time.Duration) (models.MetricsSnapshot, error) {
	if len(a.series) == 0 {
		return nil, ErrNoSeries
	}
	if window <= 0 {
		window = a.window
	}

	end := a.now().UTC()
	tr := TimeRange{Start: end.Add(-window), End: end}

	samples, err := a.backend.Query(ctx, a.series, tr)
	if err != nil {
		return nil, fmt.Errorf("%s backend: %w", a.backend.Name(), err)
	}

	snapshot := make(models.MetricsSnapshot, len(a.series))
	for _, spec := range a.series {
		snapshot[spec.ID] = analyzer.Summarize(spec.ID, samples[spec.ID])
	}

	empty := lo.Filter(a.series, func(s SeriesSpec, _ int) bool { return len(samples[s.ID]) == 0 })
	if len(empty) > 0 {
		logger.FromContext(ctx).
			WithField("series", lo.Map(empty, func(s SeriesSpec, _ int) string { return s.ID })).
			Debug("Series returned no samples")
	}

	return snapshot, nil
}
