package events

import (
	"context"
	"sync"

	"github.com/OldStager01/scaling-advisor/internal/logger"
	"github.com/OldStager01/scaling-advisor/pkg/models"
)

type AuditWriter interface {
	Insert(ctx context.Context, record *models.AuditRecord) error
}

type LatestWriter interface {
	Put(ctx context.Context, record models.AuditRecord) error
}

// Sink consumes bus events off the cycle's critical path. Every event is
// logged; audit records are also persisted to whichever writers are set.
type Sink struct {
	events <-chan *models.Event
	audit  AuditWriter
	latest LatestWriter

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type SinkConfig struct {
	Events <-chan *models.Event
	Audit  AuditWriter
	Latest LatestWriter
}

func NewSink(cfg SinkConfig) *Sink {
	ctx, cancel := context.WithCancel(context.Background())
	return &Sink{
		events: cfg.Events,
		audit:  cfg.Audit,
		latest: cfg.Latest,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Sink) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run()
	}()
}

// Stop drains nothing further and waits for the consumer to exit.
func (s *Sink) Stop() {
	s.cancel()
	s.wg.Wait()
}

// Wait blocks until the event channel is closed and fully consumed.
func (s *Sink) Wait() {
	s.wg.Wait()
}

func (s *Sink) run() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-s.events:
			if !ok {
				return
			}
			s.process(event)
		}
	}
}

func (s *Sink) process(event *models.Event) {
	entry := logger.WithFields(map[string]interface{}{
		"event_type": event.Type,
		"deployment": event.Deployment,
		"severity":   event.Severity,
		"trace_id":   event.TraceID,
	})

	switch event.Severity {
	case models.SeverityCritical:
		entry.Error(event.Message)
	case models.SeverityWarning:
		entry.Warn(event.Message)
	default:
		entry.Debug(event.Message)
	}

	if event.Type == models.EventTypeAuditRecorded {
		s.persistAudit(event)
	}
}

func (s *Sink) persistAudit(event *models.Event) {
	record, ok := event.Data.(*models.AuditRecord)
	if !ok {
		return
	}

	if s.audit != nil {
		if err := s.audit.Insert(s.ctx, record); err != nil {
			logger.Errorf("Failed to persist audit record %s: %v", record.CycleID, err)
		}
	}
	if s.latest != nil {
		if err := s.latest.Put(s.ctx, *record); err != nil {
			logger.Errorf("Failed to store latest decision %s: %v", record.CycleID, err)
		}
	}
}
