package scaler

import (
	"context"
	"fmt"

	"github.com/OldStager01/scaling-advisor/internal/logger"
	"github.com/OldStager01/scaling-advisor/pkg/models"
)

// Executor applies decisions. The replica read always happens before any
// write in the same call, and NO_ACTION never writes.
type Executor struct {
	controller Controller
}

func NewExecutor(controller Controller) *Executor {
	return &Executor{controller: controller}
}

func (e *Executor) Execute(ctx context.Context, decision *models.ScalingDecision, ref models.DeploymentRef) (*models.ExecutionResult, error) {
	current, err := e.controller.GetReplicas(ctx, ref)
	if err != nil {
		return nil, err
	}

	result := &models.ExecutionResult{
		Success:          true,
		PreviousReplicas: current,
		NewReplicas:      current,
		Action:           decision.Action,
		Reasoning:        decision.Reasoning,
	}

	if !decision.ShouldExecute() {
		result.Message = "No scaling action required"
		return result, nil
	}

	target := decision.TargetReplicas
	if target < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTarget, target)
	}

	if target == current {
		result.Message = fmt.Sprintf("%s already at %d replicas", ref.Name, current)
		logger.WithDeployment(ref.String()).Debugf("Scaling skipped: already at %d replicas", current)
		return result, nil
	}

	if err := e.controller.SetReplicas(ctx, ref, target); err != nil {
		return nil, err
	}

	result.NewReplicas = target
	result.Message = fmt.Sprintf("Scaled %s from %d to %d replicas", ref.Name, current, target)

	logger.WithDeployment(ref.String()).Infof(
		"Scaling executed: %s %d -> %d replicas", decision.Action, current, target,
	)

	return result, nil
}
