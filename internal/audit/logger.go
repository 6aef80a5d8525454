package audit

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/OldStager01/scaling-advisor/internal/logger"
	"github.com/OldStager01/scaling-advisor/pkg/models"
)

const auditMessage = "scaling cycle audit"

type Publisher interface {
	AuditRecorded(record *models.AuditRecord)
}

// Logger writes exactly one structured line per cycle and hands the record
// to the event bus for the asynchronous sinks.
type Logger struct {
	publisher Publisher
}

func NewLogger(publisher Publisher) *Logger {
	return &Logger{publisher: publisher}
}

// Record never returns an error and never blocks on a sink. A panic raised
// while formatting or publishing is logged and swallowed.
func (l *Logger) Record(ctx context.Context, record *models.AuditRecord) {
	if record == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			logger.ErrorCtxf(ctx, "Audit record %s dropped: %v", record.CycleID, r)
		}
	}()

	entry := logger.FromContext(ctx).WithFields(Fields(record))
	if record.Failed() {
		entry.Warn(auditMessage)
	} else {
		entry.Info(auditMessage)
	}

	if l.publisher != nil {
		l.publisher.AuditRecorded(record)
	}
}

// Fields flattens a record into log fields. Decision and result fields are
// only present when the cycle reached those stages.
func Fields(record *models.AuditRecord) logrus.Fields {
	fields := logrus.Fields{
		"audit":      true,
		"cycle_id":   record.CycleID,
		"timestamp":  record.Timestamp,
		"deployment": record.Deployment.String(),
		"status":     record.Status,
		"alarm":      record.Alarm,
		"metrics":    record.Metrics,
	}

	if d := record.Decision; d != nil {
		fields["action"] = d.Action
		fields["target_replicas"] = d.TargetReplicas
		fields["confidence"] = d.Confidence
		fields["urgency"] = d.Urgency
		fields["reasoning"] = d.Reasoning
	}
	if r := record.Result; r != nil {
		fields["success"] = r.Success
		fields["previous_replicas"] = r.PreviousReplicas
		fields["new_replicas"] = r.NewReplicas
		fields["result_message"] = r.Message
	}
	if record.Failed() {
		fields["error"] = record.Error
		fields["error_kind"] = record.ErrorKind
	}
	return fields
}
