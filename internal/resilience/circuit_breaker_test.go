package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("backend down")

func fail(context.Context) error    { return errBackend }
func succeed(context.Context) error { return nil }

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(cfg CircuitBreakerConfig) (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := NewCircuitBreaker(cfg)
	cb.now = clock.now
	return cb, clock
}

func tripBreaker(cb *CircuitBreaker, n int) {
	for i := 0; i < n; i++ {
		_ = cb.Execute(context.Background(), fail)
	}
}

func TestCircuitBreaker_Execute(t *testing.T) {
	tests := []struct {
		name          string
		fn            func(context.Context) error
		expectedErr   error
		expectedState State
	}{
		{name: "success stays closed", fn: succeed, expectedState: StateClosed},
		{name: "single failure stays closed", fn: fail, expectedErr: errBackend, expectedState: StateClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb, _ := newTestBreaker(CircuitBreakerConfig{MaxFailures: 3, Timeout: 5 * time.Second})

			err := cb.Execute(context.Background(), tt.fn)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectedState, cb.State())
		})
	}
}

func TestCircuitBreaker_StateTransitions(t *testing.T) {
	tests := []struct {
		name          string
		config        CircuitBreakerConfig
		setup         func(cb *CircuitBreaker, clock *fakeClock)
		expectedState State
	}{
		{
			name:          "opens after max failures",
			config:        CircuitBreakerConfig{MaxFailures: 3, Timeout: 5 * time.Second},
			setup:         func(cb *CircuitBreaker, _ *fakeClock) { tripBreaker(cb, 3) },
			expectedState: StateOpen,
		},
		{
			name:   "half-open after timeout",
			config: CircuitBreakerConfig{MaxFailures: 3, Timeout: time.Minute},
			setup: func(cb *CircuitBreaker, clock *fakeClock) {
				tripBreaker(cb, 3)
				clock.advance(2 * time.Minute)
				_ = cb.Execute(context.Background(), succeed)
			},
			expectedState: StateHalfOpen,
		},
		{
			name:   "half-open closes after enough successes",
			config: CircuitBreakerConfig{MaxFailures: 3, Timeout: time.Minute, HalfOpenMax: 2},
			setup: func(cb *CircuitBreaker, clock *fakeClock) {
				tripBreaker(cb, 3)
				clock.advance(2 * time.Minute)
				_ = cb.Execute(context.Background(), succeed)
				_ = cb.Execute(context.Background(), succeed)
			},
			expectedState: StateClosed,
		},
		{
			name:   "half-open reopens on failure",
			config: CircuitBreakerConfig{MaxFailures: 3, Timeout: time.Minute},
			setup: func(cb *CircuitBreaker, clock *fakeClock) {
				tripBreaker(cb, 3)
				clock.advance(2 * time.Minute)
				_ = cb.Execute(context.Background(), fail)
			},
			expectedState: StateOpen,
		},
		{
			name:   "reset closes",
			config: CircuitBreakerConfig{MaxFailures: 3, Timeout: time.Hour},
			setup: func(cb *CircuitBreaker, _ *fakeClock) {
				tripBreaker(cb, 3)
				cb.Reset()
			},
			expectedState: StateClosed,
		},
		{
			name:   "success resets failure count",
			config: CircuitBreakerConfig{MaxFailures: 3, Timeout: time.Hour},
			setup: func(cb *CircuitBreaker, _ *fakeClock) {
				tripBreaker(cb, 2)
				_ = cb.Execute(context.Background(), succeed)
				tripBreaker(cb, 2)
			},
			expectedState: StateClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb, clock := newTestBreaker(tt.config)
			tt.setup(cb, clock)
			assert.Equal(t, tt.expectedState, cb.State())
		})
	}
}

func TestCircuitBreaker_OpenRejectsWithoutCalling(t *testing.T) {
	cb, _ := newTestBreaker(CircuitBreakerConfig{MaxFailures: 2, Timeout: time.Hour})
	tripBreaker(cb, 2)

	called := false
	err := cb.Execute(context.Background(), func(context.Context) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_CanceledContextIsNotAFailure(t *testing.T) {
	cb, _ := newTestBreaker(CircuitBreakerConfig{MaxFailures: 1, Timeout: time.Hour})

	err := cb.Execute(context.Background(), func(context.Context) error {
		return context.Canceled
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, cb.State())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = cb.Execute(ctx, succeed)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, cb.Stats().Failures)
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	changes := make(chan [2]State, 1)
	cb, _ := newTestBreaker(CircuitBreakerConfig{
		Name:        "metrics",
		MaxFailures: 1,
		Timeout:     time.Hour,
		OnStateChange: func(name string, from, to State) {
			assert.Equal(t, "metrics", name)
			changes <- [2]State{from, to}
		},
	})

	tripBreaker(cb, 1)

	select {
	case change := <-changes:
		assert.Equal(t, [2]State{StateClosed, StateOpen}, change)
	case <-time.After(time.Second):
		t.Fatal("state change callback not invoked")
	}
}
