package orchestrator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/scaling-advisor/pkg/models"
)

type recordingRunner struct {
	mu        sync.Mutex
	payloads  [][]byte
	deadlines []bool
}

func (r *recordingRunner) Run(ctx context.Context, raw []byte) models.CycleResponse {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, hasDeadline := ctx.Deadline()
	r.payloads = append(r.payloads, raw)
	r.deadlines = append(r.deadlines, hasDeadline)
	return models.CycleResponse{Status: models.CycleStatusOK}
}

func (r *recordingRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payloads)
}

func TestScheduler_RunsImmediatelyThenOnTick(t *testing.T) {
	runner := &recordingRunner{}
	s := NewScheduler(SchedulerConfig{
		Interval: 20 * time.Millisecond,
		Timeout:  time.Second,
		Runner:   runner,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return runner.count() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	assert.False(t, s.IsRunning())

	runner.mu.Lock()
	defer runner.mu.Unlock()
	assert.Equal(t, ScheduledTrigger, runner.payloads[0])
	assert.True(t, runner.deadlines[0])
	assert.GreaterOrEqual(t, s.Cycles(), 3)
}

func TestScheduler_FirstCycleBeforeFirstTick(t *testing.T) {
	runner := &recordingRunner{}
	var seen []models.CycleResponse
	var mu sync.Mutex
	s := NewScheduler(SchedulerConfig{
		Interval: time.Hour,
		Runner:   runner,
		OnCycle: func(resp models.CycleResponse) {
			mu.Lock()
			seen = append(seen, resp)
			mu.Unlock()
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = s.Run(ctx) }()

	require.Eventually(t, func() bool { return runner.count() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	runner.mu.Lock()
	assert.False(t, runner.deadlines[0])
	runner.mu.Unlock()
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1
	}, time.Second, 5*time.Millisecond)
}
