package websocket

import (
	"encoding/json"
	"time"

	"github.com/OldStager01/scaling-advisor/pkg/models"
)

type MessageType string

const (
	MessageTypeAudit        MessageType = "audit"
	MessageTypeDecision     MessageType = "decision"
	MessageTypeScaling      MessageType = "scaling"
	MessageTypeCycleFailed  MessageType = "cycle_failed"
	MessageTypeSubscription MessageType = "subscription_update"
)

type OutgoingMessage struct {
	Type       MessageType `json:"type"`
	Deployment string      `json:"deployment,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Severity   string      `json:"severity,omitempty"`
	Message    string      `json:"message,omitempty"`
	TraceID    string      `json:"trace_id,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

func NewMessage(msgType MessageType, deployment string, data interface{}) *OutgoingMessage {
	return &OutgoingMessage{
		Type:       msgType,
		Deployment: deployment,
		Timestamp:  time.Now().UTC(),
		Data:       data,
	}
}

func (m *OutgoingMessage) JSON() []byte {
	data, _ := json.Marshal(m)
	return data
}

// messageType maps bus events to stream messages. cycle_started is internal
// and not streamed.
func messageType(eventType models.EventType) (MessageType, bool) {
	switch eventType {
	case models.EventTypeAuditRecorded:
		return MessageTypeAudit, true
	case models.EventTypeDecisionMade:
		return MessageTypeDecision, true
	case models.EventTypeScalingExecuted:
		return MessageTypeScaling, true
	case models.EventTypeCycleFailed:
		return MessageTypeCycleFailed, true
	default:
		return "", false
	}
}
