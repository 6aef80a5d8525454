package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/OldStager01/scaling-advisor/internal/audit"
	"github.com/OldStager01/scaling-advisor/internal/events"
	"github.com/OldStager01/scaling-advisor/internal/logger"
	"github.com/OldStager01/scaling-advisor/pkg/models"
)

type Config struct {
	Pipeline PipelineConfig

	ScheduleInterval time.Duration
	CycleTimeout     time.Duration

	EventBuffer int
	AuditWriter events.AuditWriter
	Latest      events.LatestWriter
}

// Orchestrator owns the event bus, the audit sink and the pipeline, and
// hands out the scheduler that drives it.
type Orchestrator struct {
	eventBus  *events.EventBus
	sink      *events.Sink
	pipeline  *Pipeline
	scheduler *Scheduler

	mu      sync.Mutex
	started bool
	stopped bool
}

func New(cfg Config) *Orchestrator {
	eventBus := events.NewEventBus(cfg.EventBuffer)

	sink := events.NewSink(events.SinkConfig{
		Events: eventBus.SubscribeAll(),
		Audit:  cfg.AuditWriter,
		Latest: cfg.Latest,
	})

	publisher := events.NewPublisher(eventBus)
	pcfg := cfg.Pipeline
	pcfg.Publisher = publisher
	pcfg.Audit = audit.NewLogger(publisher)
	pipeline := NewPipeline(pcfg)

	scheduler := NewScheduler(SchedulerConfig{
		Interval: cfg.ScheduleInterval,
		Timeout:  cfg.CycleTimeout,
		Runner:   pipeline,
	})

	return &Orchestrator{
		eventBus:  eventBus,
		sink:      sink,
		pipeline:  pipeline,
		scheduler: scheduler,
	}
}

func (o *Orchestrator) Start() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started {
		return
	}
	o.started = true

	logger.WithDeployment(o.pipeline.Deployment().String()).Info("Orchestrator starting")
	o.sink.Start()
}

// Stop closes the bus and waits for the sink to drain what was published.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	started := o.started
	o.mu.Unlock()

	o.eventBus.Close()
	if started {
		o.sink.Wait()
	}

	logger.Info("Orchestrator stopped")
}

// Trigger runs one cycle for an externally delivered payload.
func (o *Orchestrator) Trigger(ctx context.Context, raw []byte) models.CycleResponse {
	return o.pipeline.Run(ctx, raw)
}

// RunScheduler blocks until ctx is cancelled.
func (o *Orchestrator) RunScheduler(ctx context.Context) error {
	return o.scheduler.Run(ctx)
}

func (o *Orchestrator) Deployment() models.DeploymentRef {
	return o.pipeline.Deployment()
}

func (o *Orchestrator) SubscribeEvents(eventTypes ...models.EventType) <-chan *models.Event {
	return o.eventBus.Subscribe(eventTypes...)
}

func (o *Orchestrator) SubscribeAllEvents() <-chan *models.Event {
	return o.eventBus.SubscribeAll()
}
