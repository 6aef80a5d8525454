// Package resilience guards calls to the metrics backend.
package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

var stateNames = map[State]string{
	StateClosed:   "closed",
	StateOpen:     "open",
	StateHalfOpen: "half-open",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

type CircuitBreakerConfig struct {
	Name string
	// MaxFailures consecutive failures open the circuit.
	MaxFailures int
	// Timeout is how long the circuit stays open before probing.
	Timeout time.Duration
	// HalfOpenMax consecutive probe successes close the circuit again.
	HalfOpenMax   int
	OnStateChange func(name string, from, to State)
}

type Stats struct {
	State        State
	Failures     int
	LastFailTime time.Time
}

// CircuitBreaker stops calling a failing backend for a cool-off period.
// A canceled caller context is not counted against the backend.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig
	now func() time.Time

	mu       sync.Mutex
	state    State
	streak   int
	lastFail time.Time
	retryAt  time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.HalfOpenMax <= 0 {
		cfg.HalfOpenMax = 3
	}
	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

func (cb *CircuitBreaker) Name() string {
	return cb.cfg.Name
}

// Execute runs fn unless the circuit is open.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := cb.admit(); err != nil {
		return err
	}

	err := fn(ctx)
	if !errors.Is(err, context.Canceled) {
		cb.settle(err == nil)
	}
	return err
}

func (cb *CircuitBreaker) admit() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != StateOpen {
		return nil
	}
	if cb.now().Before(cb.retryAt) {
		return ErrCircuitOpen
	}
	cb.moveTo(StateHalfOpen)
	return nil
}

func (cb *CircuitBreaker) settle(ok bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if ok {
		switch cb.state {
		case StateClosed:
			cb.streak = 0
		case StateHalfOpen:
			if cb.streak++; cb.streak >= cb.cfg.HalfOpenMax {
				cb.moveTo(StateClosed)
			}
		}
		return
	}

	cb.lastFail = cb.now()
	switch cb.state {
	case StateClosed:
		if cb.streak++; cb.streak >= cb.cfg.MaxFailures {
			cb.moveTo(StateOpen)
		}
	case StateHalfOpen:
		cb.moveTo(StateOpen)
	}
}

// moveTo must be called with mu held. The streak counts failures while
// closed and successes while half-open, so it restarts on every move.
func (cb *CircuitBreaker) moveTo(next State) {
	prev := cb.state
	cb.state = next
	cb.streak = 0
	if next == StateOpen {
		cb.retryAt = cb.now().Add(cb.cfg.Timeout)
	}
	if prev != next && cb.cfg.OnStateChange != nil {
		go cb.cfg.OnStateChange(cb.cfg.Name, prev, next)
	}
}

func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.moveTo(StateClosed)
}

func (cb *CircuitBreaker) Stats() Stats {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	stats := Stats{State: cb.state, LastFailTime: cb.lastFail}
	if cb.state == StateClosed {
		stats.Failures = cb.streak
	}
	return stats
}
