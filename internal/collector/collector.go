package collector

import (
	"context"
	"errors"
	"time"
)

var (
	ErrQueryFailed     = errors.New("metrics query failed")
	ErrInvalidResponse = errors.New("invalid response from metrics backend")
	ErrNoSeries        = errors.New("no metric series configured")
)

type Dimension struct {
	Name  string `mapstructure:"name" json:"name"`
	Value string `mapstructure:"value" json:"value"`
}

// SeriesSpec names one time series to read. Backends use the fields that
// make sense for them: CloudWatch the namespace/metric/dimensions/stat,
// Prometheus the Query expression.
type SeriesSpec struct {
	ID         string        `mapstructure:"id" json:"id"`
	Namespace  string        `mapstructure:"namespace" json:"namespace"`
	MetricName string        `mapstructure:"metric_name" json:"metric_name"`
	Dimensions []Dimension   `mapstructure:"dimensions" json:"dimensions"`
	Period     time.Duration `mapstructure:"period" json:"period"`
	Stat       string        `mapstructure:"stat" json:"stat"`
	Query      string        `mapstructure:"query" json:"query,omitempty"`
}

type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Samples maps series id to values ordered newest first.
type Samples map[string][]float64

// Backend performs one batched read of the given series.
type Backend interface {
	Name() string

	// Query returns samples for each requested series, newest first.
	// Series without data may be absent from the result.
	Query(ctx context.Context, series []SeriesSpec, tr TimeRange) (Samples, error)

	// HealthCheck verifies the backend is reachable.
	HealthCheck(ctx context.Context) error
}
