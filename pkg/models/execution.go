package models

// ExecutionResult is what the executor observed and did for one decision.
type ExecutionResult struct {
	Success          bool          `json:"success"`
	Message          string        `json:"message"`
	PreviousReplicas int           `json:"previous_replicas"`
	NewReplicas      int           `json:"new_replicas"`
	Action           ScalingAction `json:"action,omitempty"`
	Reasoning        string        `json:"reasoning,omitempty"`
}

func (r *ExecutionResult) Delta() int {
	return r.NewReplicas - r.PreviousReplicas
}

func (r *ExecutionResult) Changed() bool {
	return r.NewReplicas != r.PreviousReplicas
}
