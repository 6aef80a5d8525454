package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/scaling-advisor/pkg/models"
)

func TestEventBus_SubscribeFiltersByType(t *testing.T) {
	bus := NewEventBus(10)
	audits := bus.Subscribe(models.EventTypeAuditRecorded)
	all := bus.SubscribeAll()

	pub := NewPublisher(bus).WithTraceID("trace-1")
	pub.CycleStarted("c/ns/app", models.NewScheduledAlarm(time.Now()))
	pub.AuditRecorded(&models.AuditRecord{CycleID: "cycle-1", Status: models.CycleStatusOK})

	require.Len(t, audits, 1)
	require.Len(t, all, 2)

	event := <-audits
	assert.Equal(t, models.EventTypeAuditRecorded, event.Type)
	assert.Equal(t, "trace-1", event.TraceID)
	assert.Equal(t, models.SeverityInfo, event.Severity)
}

func TestEventBus_DropsWhenFull(t *testing.T) {
	bus := NewEventBus(1)
	ch := bus.Subscribe(models.EventTypeCycleFailed)
	pub := NewPublisher(bus)

	pub.CycleFailed("d", models.ErrorKindBackend, errors.New("timeout"))
	pub.CycleFailed("d", models.ErrorKindBackend, errors.New("timeout"))

	assert.Len(t, ch, 1)
	assert.Equal(t, int64(1), bus.Dropped())
	event := <-ch
	assert.Equal(t, models.SeverityCritical, event.Severity)
	data := event.Data.(map[string]interface{})
	assert.Equal(t, models.ErrorKindBackend, data["error_kind"])
}

func TestEventBus_CloseIsIdempotent(t *testing.T) {
	bus := NewEventBus(1)
	ch := bus.SubscribeAll()

	bus.Close()
	bus.Close()
	bus.Publish(models.NewEvent(models.EventTypeCycleStarted, "d", "ignored"))

	_, ok := <-ch
	assert.False(t, ok)
}

func TestEventBus_SubscribeAfterClose(t *testing.T) {
	bus := NewEventBus(1)
	bus.Close()

	_, ok := <-bus.Subscribe(AllEventTypes()...)
	assert.False(t, ok)
}

func TestEventBus_EveryTypeReachesSubscribeAll(t *testing.T) {
	types := AllEventTypes()
	bus := NewEventBus(len(types))
	all := bus.SubscribeAll()

	for _, et := range types {
		bus.Publish(models.NewEvent(et, "d", string(et)))
	}
	bus.Publish(nil)

	assert.Len(t, all, len(types))
	assert.Zero(t, bus.Dropped())
}

func TestPublisher_NilIsNoop(t *testing.T) {
	var pub *Publisher
	assert.NotPanics(t, func() {
		pub.AuditRecorded(&models.AuditRecord{})
	})
}

type recordingWriter struct {
	mu      sync.Mutex
	records []*models.AuditRecord
	err     error
}

func (w *recordingWriter) Insert(_ context.Context, r *models.AuditRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.records = append(w.records, r)
	return w.err
}

func (w *recordingWriter) Put(_ context.Context, r models.AuditRecord) error {
	return w.Insert(context.Background(), &r)
}

func TestSink_PersistsAuditRecords(t *testing.T) {
	bus := NewEventBus(10)
	audit := &recordingWriter{}
	latest := &recordingWriter{err: errors.New("redis down")}
	sink := NewSink(SinkConfig{Events: bus.SubscribeAll(), Audit: audit, Latest: latest})
	sink.Start()

	pub := NewPublisher(bus)
	pub.DecisionMade("d", &models.ScalingDecision{Action: models.ActionScaleUp, Urgency: models.UrgencyHigh})
	pub.AuditRecorded(&models.AuditRecord{CycleID: "cycle-7", Status: models.CycleStatusFailed})

	bus.Close()
	sink.Wait()

	require.Len(t, audit.records, 1)
	assert.Equal(t, "cycle-7", audit.records[0].CycleID)
	require.Len(t, latest.records, 1)
}
