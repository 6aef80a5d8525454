package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/scaling-advisor/pkg/models"
)

var testRef = models.DeploymentRef{Cluster: "introspect2-eks", Namespace: "default", Name: "claims-service"}

func record(cycleID string) models.AuditRecord {
	return models.AuditRecord{
		CycleID:    cycleID,
		Timestamp:  time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
		Deployment: testRef,
		Status:     models.CycleStatusOK,
		Alarm:      models.NewScheduledAlarm(time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)),
		Decision:   &models.ScalingDecision{Action: models.ActionNoAction, TargetReplicas: 2},
	}
}

func TestMemoryStore_PutAndGetLatest(t *testing.T) {
	s := NewMemoryStore(0, 0)
	ctx := context.Background()

	_, found, err := s.GetLatest(ctx, testRef)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Put(ctx, record("c1")))
	require.NoError(t, s.Put(ctx, record("c2")))

	latest, found, err := s.GetLatest(ctx, testRef)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "c2", latest.CycleID)
}

func TestMemoryStore_RecentIsBoundedAndNewestFirst(t *testing.T) {
	s := NewMemoryStore(0, 3)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		require.NoError(t, s.Put(ctx, record(fmt.Sprintf("c%d", i))))
	}

	recent, err := s.Recent(ctx, testRef, 10)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "c5", recent[0].CycleID)
	assert.Equal(t, "c3", recent[2].CycleID)

	recent, err = s.Recent(ctx, testRef, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
}

func TestMemoryStore_TTL(t *testing.T) {
	s := NewMemoryStore(time.Minute, 0)
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, record("c1")))

	now = now.Add(2 * time.Minute)
	_, found, err := s.GetLatest(ctx, testRef)
	require.NoError(t, err)
	assert.False(t, found)

	recent, err := s.Recent(ctx, testRef, 5)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestMemoryStore_RejectsRecordWithoutDeployment(t *testing.T) {
	s := NewMemoryStore(0, 0)

	err := s.Put(context.Background(), models.AuditRecord{CycleID: "x"})

	assert.ErrorIs(t, err, ErrInvalidRecord)
}
