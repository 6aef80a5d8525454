// Package store keeps the most recent audit records per deployment for
// quick reads by the API.
package store

import (
	"context"
	"errors"

	"github.com/OldStager01/scaling-advisor/pkg/models"
)

var ErrInvalidRecord = errors.New("audit record has no deployment")

const DefaultHistory = 50

type Store interface {
	// Put saves rec as the latest record of its deployment and prepends it
	// to the deployment's bounded history.
	Put(ctx context.Context, rec models.AuditRecord) error

	GetLatest(ctx context.Context, ref models.DeploymentRef) (models.AuditRecord, bool, error)

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, ref models.DeploymentRef, limit int) ([]models.AuditRecord, error)

	Ping(ctx context.Context) error
	Close() error
}

func validate(rec models.AuditRecord) error {
	if rec.Deployment.Name == "" {
		return ErrInvalidRecord
	}
	return nil
}
