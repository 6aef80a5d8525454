package scaler

import (
	"context"
	"errors"

	"github.com/OldStager01/scaling-advisor/pkg/models"
)

var (
	ErrGetReplicasFailed  = errors.New("reading replicas failed")
	ErrSetReplicasFailed  = errors.New("setting replicas failed")
	ErrDeploymentNotFound = errors.New("deployment not found")
	ErrInvalidTarget      = errors.New("invalid target replica count")
)

// Controller reads and writes a deployment's desired replica count.
type Controller interface {
	Name() string

	GetReplicas(ctx context.Context, ref models.DeploymentRef) (int, error)

	// SetReplicas sets the desired replica count. Setting the current value
	// again must succeed.
	SetReplicas(ctx context.Context, ref models.DeploymentRef, replicas int) error
}
