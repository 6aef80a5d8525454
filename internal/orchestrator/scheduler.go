package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/OldStager01/scaling-advisor/internal/logger"
	"github.com/OldStager01/scaling-advisor/pkg/models"
)

// ScheduledTrigger is the payload sent on every tick. It is not a
// notification envelope, so it normalizes to the scheduled alarm.
var ScheduledTrigger = []byte(`{"source":"scheduler"}`)

type Runner interface {
	Run(ctx context.Context, raw []byte) models.CycleResponse
}

type SchedulerConfig struct {
	Interval time.Duration
	// Timeout bounds each cycle. Zero leaves cycles unbounded.
	Timeout time.Duration
	Runner  Runner
	// OnCycle observes every response, mainly for tests.
	OnCycle func(models.CycleResponse)
}

// Scheduler fires one scheduled cycle immediately and then on every tick.
type Scheduler struct {
	config SchedulerConfig

	mu      sync.Mutex
	running bool
	cycles  int
}

func NewScheduler(cfg SchedulerConfig) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	return &Scheduler{config: cfg}
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	logger.Infof("Scheduler started, interval %s", s.config.Interval)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Scheduler stopped")
			return nil
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context) {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	resp := s.config.Runner.Run(ctx, ScheduledTrigger)

	s.mu.Lock()
	s.cycles++
	s.mu.Unlock()

	if s.config.OnCycle != nil {
		s.config.OnCycle(resp)
	}
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) Cycles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycles
}
