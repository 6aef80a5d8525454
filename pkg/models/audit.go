package models

import "time"

type CycleStatus string

const (
	CycleStatusOK     CycleStatus = "ok"
	CycleStatusFailed CycleStatus = "failed"
)

// ErrorKind separates "a backend did not answer" from "the oracle answered nonsense".
type ErrorKind string

const (
	ErrorKindBackend        ErrorKind = "backend"
	ErrorKindOracleContract ErrorKind = "oracle_contract"
	ErrorKindInternal       ErrorKind = "internal"
)

// AuditRecord is written once per cycle. Decision and Result are nil when
// the cycle failed before reaching those stages.
type AuditRecord struct {
	CycleID    string           `json:"cycle_id"`
	Timestamp  time.Time        `json:"timestamp"`
	Deployment DeploymentRef    `json:"deployment"`
	Status     CycleStatus      `json:"status"`
	Alarm      AlarmContext     `json:"alarm"`
	Metrics    MetricsSnapshot  `json:"metrics"`
	Decision   *ScalingDecision `json:"decision,omitempty"`
	Result     *ExecutionResult `json:"result,omitempty"`
	Error      string           `json:"error,omitempty"`
	ErrorKind  ErrorKind        `json:"error_kind,omitempty"`
}

func (r *AuditRecord) Failed() bool {
	return r.Status == CycleStatusFailed
}

// CycleResponse is the outward result of one pipeline invocation.
type CycleResponse struct {
	CycleID   string           `json:"cycle_id"`
	Status    CycleStatus      `json:"status"`
	Decision  *ScalingDecision `json:"decision,omitempty"`
	Result    *ExecutionResult `json:"result,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Error     string           `json:"error,omitempty"`
	ErrorKind ErrorKind        `json:"error_kind,omitempty"`
}

func (r *CycleResponse) OK() bool {
	return r.Status == CycleStatusOK
}
