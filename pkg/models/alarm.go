package models

import "time"

type AlarmState string

const (
	AlarmStateOK        AlarmState = "OK"
	AlarmStateAlarm     AlarmState = "ALARM"
	AlarmStateTriggered AlarmState = "TRIGGERED"
	AlarmStateUnknown   AlarmState = "UNKNOWN"
)

// ParseAlarmState maps a raw state string onto the known states.
// Anything unrecognized becomes UNKNOWN.
func ParseAlarmState(s string) AlarmState {
	switch AlarmState(s) {
	case AlarmStateOK, AlarmStateAlarm, AlarmStateTriggered:
		return AlarmState(s)
	default:
		return AlarmStateUnknown
	}
}

const (
	ScheduledAlarmName   = "Scheduled"
	ScheduledAlarmReason = "Periodic analysis"
)

// AlarmContext is the canonical form of whatever triggered a cycle.
type AlarmContext struct {
	Name       string     `json:"name"`
	State      AlarmState `json:"state"`
	Reason     string     `json:"reason"`
	MetricName string     `json:"metric_name"`
	Threshold  float64    `json:"threshold"`
	Timestamp  string     `json:"timestamp"`
}

func NewScheduledAlarm(now time.Time) AlarmContext {
	return AlarmContext{
		Name:       ScheduledAlarmName,
		State:      AlarmStateTriggered,
		Reason:     ScheduledAlarmReason,
		MetricName: ScheduledAlarmName,
		Threshold:  0,
		Timestamp:  now.UTC().Format(time.RFC3339),
	}
}

func (a AlarmContext) IsScheduled() bool {
	return a.Name == ScheduledAlarmName && a.State == AlarmStateTriggered
}
