package events

import (
	"fmt"

	"github.com/OldStager01/scaling-advisor/pkg/models"
)

type Publisher struct {
	bus     *EventBus
	traceID string
}

func NewPublisher(bus *EventBus) *Publisher {
	return &Publisher{bus: bus}
}

func (p *Publisher) WithTraceID(traceID string) *Publisher {
	return &Publisher{
		bus:     p.bus,
		traceID: traceID,
	}
}

func (p *Publisher) publish(event *models.Event) {
	if p == nil || p.bus == nil {
		return
	}
	if p.traceID != "" {
		event.TraceID = p.traceID
	}
	p.bus.Publish(event)
}

func (p *Publisher) CycleStarted(deployment string, alarm models.AlarmContext) {
	msg := fmt.Sprintf("Cycle started by %s (%s)", alarm.Name, alarm.State)
	p.publish(models.NewEvent(models.EventTypeCycleStarted, deployment, msg).WithData(alarm))
}

func (p *Publisher) DecisionMade(deployment string, decision *models.ScalingDecision) {
	msg := "Scaling decision: " + string(decision.Action)
	event := models.NewEvent(models.EventTypeDecisionMade, deployment, msg).WithData(decision)
	if decision.Urgency == models.UrgencyHigh {
		event.WithSeverity(models.SeverityWarning)
	}
	p.publish(event)
}

func (p *Publisher) ScalingExecuted(deployment string, result *models.ExecutionResult) {
	msg := fmt.Sprintf("Scaled %d -> %d replicas", result.PreviousReplicas, result.NewReplicas)
	p.publish(models.NewEvent(models.EventTypeScalingExecuted, deployment, msg).WithData(result))
}

func (p *Publisher) AuditRecorded(record *models.AuditRecord) {
	msg := "Audit recorded: " + string(record.Status)
	event := models.NewEvent(models.EventTypeAuditRecorded, record.Deployment.String(), msg).WithData(record)
	if record.Failed() {
		event.WithSeverity(models.SeverityWarning)
	}
	p.publish(event)
}

func (p *Publisher) CycleFailed(deployment string, kind models.ErrorKind, err error) {
	msg := fmt.Sprintf("Cycle failed (%s)", kind)
	p.publish(models.NewEvent(models.EventTypeCycleFailed, deployment, msg).
		WithSeverity(models.SeverityCritical).
		WithData(map[string]interface{}{
			"error_kind": kind,
			"error":      err.Error(),
		}))
}
