// Package normalizer turns raw trigger payloads into an AlarmContext.
//
// Two shapes are recognized. A notification envelope whose first record
// carries an alarm-state message is unpacked field by field. Any other
// payload, including malformed JSON and envelopes whose message cannot be
// read, is treated as a scheduled trigger. Normalization never fails.
package normalizer

import (
	"time"

	"github.com/tidwall/gjson"

	"github.com/OldStager01/scaling-advisor/pkg/models"
)

const (
	messagePath = "Records.0.Sns.Message"

	defaultAlarmName = "Unknown"
)

type Normalizer struct {
	now func() time.Time
}

type Option func(*Normalizer)

// WithClock overrides the time source used for scheduled triggers and
// missing state-change timestamps.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) {
		n.now = now
	}
}

func New(opts ...Option) *Normalizer {
	n := &Normalizer{now: time.Now}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Normalizer) Normalize(raw []byte) models.AlarmContext {
	message, ok := alarmMessage(raw)
	if !ok {
		return models.NewScheduledAlarm(n.now())
	}

	alarm := models.AlarmContext{
		Name:       stringOr(message.Get("AlarmName"), defaultAlarmName),
		State:      models.ParseAlarmState(stringOr(message.Get("NewStateValue"), string(models.AlarmStateUnknown))),
		Reason:     message.Get("NewStateReason").String(),
		MetricName: message.Get("Trigger.MetricName").String(),
		Threshold:  message.Get("Trigger.Threshold").Float(),
		Timestamp:  message.Get("StateChangeTime").String(),
	}
	if alarm.Timestamp == "" {
		alarm.Timestamp = n.now().UTC().Format(time.RFC3339)
	}
	return alarm
}

// IsEnvelope reports whether raw would be unpacked as an alarm notification
// rather than falling back to a scheduled trigger.
func IsEnvelope(raw []byte) bool {
	_, ok := alarmMessage(raw)
	return ok
}

// alarmMessage finds the embedded alarm message. The message is usually a
// JSON document encoded as a string, but an inline object is accepted too.
func alarmMessage(raw []byte) (gjson.Result, bool) {
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, false
	}

	msg := gjson.GetBytes(raw, messagePath)
	switch {
	case msg.Type == gjson.String:
		if !gjson.Valid(msg.Str) {
			return gjson.Result{}, false
		}
		inner := gjson.Parse(msg.Str)
		if !inner.IsObject() {
			return gjson.Result{}, false
		}
		return inner, true
	case msg.IsObject():
		return msg, true
	default:
		return gjson.Result{}, false
	}
}

func stringOr(r gjson.Result, fallback string) string {
	if !r.Exists() || r.String() == "" {
		return fallback
	}
	return r.String()
}
