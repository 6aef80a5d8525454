package orchestrator

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/scaling-advisor/internal/collector"
	"github.com/OldStager01/scaling-advisor/internal/decision"
	"github.com/OldStager01/scaling-advisor/internal/oracle"
	"github.com/OldStager01/scaling-advisor/internal/scaler"
	"github.com/OldStager01/scaling-advisor/internal/store"
	"github.com/OldStager01/scaling-advisor/pkg/models"
)

type memoryAuditWriter struct {
	mu      sync.Mutex
	records []*models.AuditRecord
}

func (w *memoryAuditWriter) Insert(_ context.Context, r *models.AuditRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.records = append(w.records, r)
	return nil
}

func TestOrchestrator_TriggerPersistsThroughSink(t *testing.T) {
	sim := scaler.NewSimulatorController(scaler.SimulatorConfig{InitialReplicas: 3})
	writer := &memoryAuditWriter{}
	latest := store.NewMemoryStore(0, 0)

	o := New(Config{
		Pipeline: PipelineConfig{
			Deployment: testDeployment,
			Bounds:     models.Bounds{Min: 2, Max: 10},
			Aggregator: collector.NewAggregator(collector.AggregatorConfig{
				Backend: collector.NewMockBackend(collector.MockBackendConfig{}),
				Series:  collector.DefaultSeries("c", "ns"),
			}),
			Engine:   decision.NewEngine(decision.Config{}, oracle.NewStaticOracle(`{"action":"SCALE_DOWN","target_replicas":1}`)),
			Executor: scaler.NewExecutor(sim),
		},
		AuditWriter: writer,
		Latest:      latest,
	})
	o.Start()

	stream := o.SubscribeEvents(models.EventTypeScalingExecuted)
	resp := o.Trigger(context.Background(), nil)
	o.Stop()
	o.Stop()

	require.True(t, resp.OK(), resp.Error)
	assert.Equal(t, 2, resp.Result.NewReplicas)
	require.Len(t, writer.records, 1)
	assert.Equal(t, resp.CycleID, writer.records[0].CycleID)

	rec, ok, err := latest.GetLatest(context.Background(), testDeployment)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, resp.CycleID, rec.CycleID)

	event, open := <-stream
	require.True(t, open)
	assert.Equal(t, models.EventTypeScalingExecuted, event.Type)
}
