package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/OldStager01/scaling-advisor/internal/audit"
	"github.com/OldStager01/scaling-advisor/internal/collector"
	"github.com/OldStager01/scaling-advisor/internal/decision"
	"github.com/OldStager01/scaling-advisor/internal/events"
	"github.com/OldStager01/scaling-advisor/internal/logger"
	"github.com/OldStager01/scaling-advisor/internal/metrics"
	"github.com/OldStager01/scaling-advisor/internal/normalizer"
	"github.com/OldStager01/scaling-advisor/internal/scaler"
	"github.com/OldStager01/scaling-advisor/pkg/models"
)

// ErrPanic wraps a panic recovered inside a cycle.
var ErrPanic = errors.New("cycle panicked")

type PipelineConfig struct {
	Deployment models.DeploymentRef
	Bounds     models.Bounds
	Window     time.Duration

	Normalizer *normalizer.Normalizer
	Aggregator *collector.Aggregator
	Engine     *decision.Engine
	Executor   *scaler.Executor

	Audit     *audit.Logger
	Publisher *events.Publisher
	Metrics   *metrics.Metrics
	Locks     *KeyedMutex
	Now       func() time.Time
}

// Pipeline runs one decision cycle per trigger:
// normalize, aggregate, decide, execute, then audit.
type Pipeline struct {
	config PipelineConfig
}

func NewPipeline(cfg PipelineConfig) *Pipeline {
	if cfg.Normalizer == nil {
		cfg.Normalizer = normalizer.New()
	}
	if cfg.Audit == nil {
		cfg.Audit = audit.NewLogger(cfg.Publisher)
	}
	if cfg.Locks == nil {
		cfg.Locks = NewKeyedMutex()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Pipeline{config: cfg}
}

func (p *Pipeline) Deployment() models.DeploymentRef {
	return p.config.Deployment
}

// Run never returns an error: every failure, including a panic in any stage,
// becomes a failed CycleResponse and is still audited.
func (p *Pipeline) Run(ctx context.Context, raw []byte) models.CycleResponse {
	cfg := p.config
	cycleID := models.NewUUID()
	ctx = logger.WithCycleID(ctx, cycleID)

	unlock := cfg.Locks.Lock(cfg.Deployment.Key())
	defer unlock()

	start := cfg.Now()
	record := &models.AuditRecord{
		CycleID:    cycleID,
		Timestamp:  start.UTC(),
		Deployment: cfg.Deployment,
		Status:     models.CycleStatusOK,
		Metrics:    models.MetricsSnapshot{},
	}

	err := p.runStages(ctx, raw, record)

	resp := models.CycleResponse{
		CycleID:   cycleID,
		Status:    models.CycleStatusOK,
		Decision:  record.Decision,
		Result:    record.Result,
		Timestamp: cfg.Now().UTC(),
	}

	if err != nil {
		kind := classify(err)
		record.Status = models.CycleStatusFailed
		record.Error = err.Error()
		record.ErrorKind = kind

		resp.Status = models.CycleStatusFailed
		resp.Decision = nil
		resp.Result = nil
		resp.Error = err.Error()
		resp.ErrorKind = kind

		logger.ErrorCtxf(ctx, "Cycle failed (%s): %v", kind, err)
		cfg.Publisher.CycleFailed(cfg.Deployment.String(), kind, err)
	}

	cfg.Audit.Record(ctx, record)
	cfg.Metrics.RecordCycle(cfg.Deployment.Name, resp, cfg.Now().Sub(start))

	return resp
}

func (p *Pipeline) runStages(ctx context.Context, raw []byte, record *models.AuditRecord) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	cfg := p.config
	deployment := cfg.Deployment.String()

	stageStart := cfg.Now()
	record.Alarm = cfg.Normalizer.Normalize(raw)
	cfg.Metrics.ObserveStage(metrics.StageNormalize, cfg.Now().Sub(stageStart))
	cfg.Publisher.CycleStarted(deployment, record.Alarm)

	logger.InfoCtxf(ctx, "Cycle started by %s (%s)", record.Alarm.Name, record.Alarm.State)

	stageStart = cfg.Now()
	snapshot, err := cfg.Aggregator.Aggregate(ctx, cfg.Window)
	cfg.Metrics.ObserveStage(metrics.StageAggregate, cfg.Now().Sub(stageStart))
	if err != nil {
		return err
	}
	record.Metrics = snapshot

	stageStart = cfg.Now()
	d, err := cfg.Engine.Decide(ctx, record.Alarm, snapshot, cfg.Bounds)
	cfg.Metrics.ObserveStage(metrics.StageDecide, cfg.Now().Sub(stageStart))
	if err != nil {
		return err
	}
	record.Decision = d
	cfg.Publisher.DecisionMade(deployment, d)

	stageStart = cfg.Now()
	result, err := cfg.Executor.Execute(ctx, d, cfg.Deployment)
	cfg.Metrics.ObserveStage(metrics.StageExecute, cfg.Now().Sub(stageStart))
	if err != nil {
		return err
	}
	record.Result = result
	if result.Changed() {
		cfg.Publisher.ScalingExecuted(deployment, result)
	}

	return nil
}

func classify(err error) models.ErrorKind {
	switch {
	case errors.Is(err, ErrPanic):
		return models.ErrorKindInternal
	case errors.Is(err, decision.ErrOracleContract):
		return models.ErrorKindOracleContract
	case errors.Is(err, scaler.ErrInvalidTarget):
		return models.ErrorKindInternal
	default:
		return models.ErrorKindBackend
	}
}
