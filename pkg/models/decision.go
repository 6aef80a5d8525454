package models

type ScalingAction string

const (
	ActionScaleUp   ScalingAction = "SCALE_UP"
	ActionScaleDown ScalingAction = "SCALE_DOWN"
	ActionNoAction  ScalingAction = "NO_ACTION"
)

func (a ScalingAction) Valid() bool {
	switch a {
	case ActionScaleUp, ActionScaleDown, ActionNoAction:
		return true
	}
	return false
}

type Urgency string

const (
	UrgencyLow    Urgency = "LOW"
	UrgencyMedium Urgency = "MEDIUM"
	UrgencyHigh   Urgency = "HIGH"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}

// Bounds is the closed replica interval every decision is clamped into.
type Bounds struct {
	Min int `json:"min_replicas"`
	Max int `json:"max_replicas"`
}

func (b Bounds) Clamp(n int) int {
	if n < b.Min {
		return b.Min
	}
	if n > b.Max {
		return b.Max
	}
	return n
}

func (b Bounds) Contains(n int) bool {
	return n >= b.Min && n <= b.Max
}

// ScalingDecision is the validated, clamped recommendation for one cycle.
type ScalingDecision struct {
	Action         ScalingAction `json:"action"`
	TargetReplicas int           `json:"target_replicas"`
	Confidence     float64       `json:"confidence"`
	Reasoning      string        `json:"reasoning"`
	Urgency        Urgency       `json:"urgency"`
}

func (d *ScalingDecision) ShouldExecute() bool {
	return d.Action == ActionScaleUp || d.Action == ActionScaleDown
}
