package collector

import (
	"context"
	"sync"
	"time"
)

// MockBackend serves fixed or pattern-generated samples from memory.
type MockBackend struct {
	mu         sync.RWMutex
	fixed      Samples
	generators map[string]generator
	err        error
	calls      int
}

type generator struct {
	base    float64
	pattern Pattern
}

type MockBackendConfig struct {
	// Series holds fixed samples, newest first.
	Series Samples
}

func NewMockBackend(cfg MockBackendConfig) *MockBackend {
	fixed := make(Samples, len(cfg.Series))
	for id, values := range cfg.Series {
		fixed[id] = append([]float64(nil), values...)
	}
	return &MockBackend{
		fixed:      fixed,
		generators: make(map[string]generator),
	}
}

func (b *MockBackend) Name() string { return "mock" }

// SetSeries replaces the fixed samples for id, newest first.
func (b *MockBackend) SetSeries(id string, values []float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fixed[id] = append([]float64(nil), values...)
	delete(b.generators, id)
}

// SetPattern generates samples for id at each period step in the queried range.
func (b *MockBackend) SetPattern(id string, base float64, pattern Pattern) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.generators[id] = generator{base: base, pattern: pattern}
	delete(b.fixed, id)
}

func (b *MockBackend) SetError(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
}

func (b *MockBackend) Calls() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.calls
}

func (b *MockBackend) Query(ctx context.Context, series []SeriesSpec, tr TimeRange) (Samples, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b.err != nil {
		return nil, b.err
	}

	out := make(Samples, len(series))
	for _, s := range series {
		if values, ok := b.fixed[s.ID]; ok {
			out[s.ID] = append([]float64(nil), values...)
			continue
		}
		if gen, ok := b.generators[s.ID]; ok {
			out[s.ID] = gen.samples(s.Period, tr)
		}
	}
	return out, nil
}

func (b *MockBackend) HealthCheck(ctx context.Context) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.err
}

func (g generator) samples(period time.Duration, tr TimeRange) []float64 {
	if period <= 0 {
		period = DefaultPeriod
	}
	n := int(tr.End.Sub(tr.Start) / period)
	if n <= 0 {
		return nil
	}

	values := make([]float64, n)
	for i := 0; i < n; i++ {
		at := tr.End.Add(-time.Duration(i) * period)
		progress := 1.0
		if n > 1 {
			progress = float64(n-1-i) / float64(n-1)
		}
		values[i] = g.pattern.Value(g.base, at, progress)
	}
	return values
}
