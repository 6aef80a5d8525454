package collector

import (
	"context"
	"time"

	"github.com/OldStager01/scaling-advisor/internal/logger"
	"github.com/OldStager01/scaling-advisor/internal/resilience"
)

// ResilientBackend guards a backend with a circuit breaker. Retries are off
// unless RetryAttempts is set above one.
type ResilientBackend struct {
	backend        Backend
	circuitBreaker *resilience.CircuitBreaker
	retryAttempts  int
	retryDelay     time.Duration
}

type ResilientBackendConfig struct {
	Backend       Backend
	MaxFailures   int
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	OnStateChange func(name string, from, to resilience.State)
}

func NewResilientBackend(cfg ResilientBackendConfig) *ResilientBackend {
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 1
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}

	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:          cfg.Backend.Name(),
		MaxFailures:   cfg.MaxFailures,
		Timeout:       cfg.Timeout,
		OnStateChange: cfg.OnStateChange,
	})

	return &ResilientBackend{
		backend:        cfg.Backend,
		circuitBreaker: cb,
		retryAttempts:  cfg.RetryAttempts,
		retryDelay:     cfg.RetryDelay,
	}
}

func (r *ResilientBackend) Name() string { return r.backend.Name() }

func (r *ResilientBackend) Query(ctx context.Context, series []SeriesSpec, tr TimeRange) (Samples, error) {
	var samples Samples

	err := r.circuitBreaker.Execute(ctx, func(ctx context.Context) error {
		var lastErr error
		for attempt := 1; attempt <= r.retryAttempts; attempt++ {
			var err error
			samples, err = r.backend.Query(ctx, series, tr)
			if err == nil {
				return nil
			}
			lastErr = err

			if attempt < r.retryAttempts {
				logger.FromContext(ctx).Warnf("Metrics query attempt %d/%d failed: %v", attempt, r.retryAttempts, err)
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(r.retryDelay):
				}
			}
		}
		return lastErr
	})
	if err != nil {
		return nil, err
	}

	return samples, nil
}

func (r *ResilientBackend) HealthCheck(ctx context.Context) error {
	return r.backend.HealthCheck(ctx)
}

func (r *ResilientBackend) CircuitState() resilience.State {
	return r.circuitBreaker.State()
}

func (r *ResilientBackend) ResetCircuit() {
	r.circuitBreaker.Reset()
}
