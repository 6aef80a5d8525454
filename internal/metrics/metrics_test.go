package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/scaling-advisor/internal/resilience"
	"github.com/OldStager01/scaling-advisor/pkg/models"
)

func TestRecordCycle(t *testing.T) {
	tests := []struct {
		name      string
		resp      models.CycleResponse
		status    string
		up, down  float64
		errors    float64
		decisions float64
	}{
		{
			name: "scale up",
			resp: models.CycleResponse{
				Status:   models.CycleStatusOK,
				Decision: &models.ScalingDecision{Action: models.ActionScaleUp},
				Result:   &models.ExecutionResult{PreviousReplicas: 2, NewReplicas: 10},
			},
			status: "ok", up: 1, decisions: 1,
		},
		{
			name: "scale down",
			resp: models.CycleResponse{
				Status:   models.CycleStatusOK,
				Decision: &models.ScalingDecision{Action: models.ActionScaleDown},
				Result:   &models.ExecutionResult{PreviousReplicas: 5, NewReplicas: 4},
			},
			status: "ok", down: 1, decisions: 1,
		},
		{
			name:   "failed",
			resp:   models.CycleResponse{Status: models.CycleStatusFailed, ErrorKind: models.ErrorKindBackend},
			status: "failed", errors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(prometheus.NewRegistry())
			m.RecordCycle("app", tt.resp, time.Second)

			assert.Equal(t, 1.0, testutil.ToFloat64(m.CyclesTotal.WithLabelValues("app", tt.status)))
			assert.Equal(t, tt.up, testutil.ToFloat64(m.ScalingTotal.WithLabelValues("app", "up")))
			assert.Equal(t, tt.down, testutil.ToFloat64(m.ScalingTotal.WithLabelValues("app", "down")))
			assert.Equal(t, tt.errors, testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("app", "backend")))
			if tt.resp.Decision != nil {
				assert.Equal(t, tt.decisions, testutil.ToFloat64(m.DecisionsTotal.WithLabelValues("app", string(tt.resp.Decision.Action))))
			}
		})
	}
}

func TestBreakerStateChanged(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.BreakerStateChanged("cloudwatch", resilience.StateClosed, resilience.StateOpen)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CircuitBreakerState.WithLabelValues("cloudwatch")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordCycle("app", models.CycleResponse{}, time.Second)
		m.ObserveStage(StageDecide, time.Second)
		m.BreakerStateChanged("x", resilience.StateClosed, resilience.StateOpen)
	})
}

func TestHandlerServesRegistry(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveStage(StageAggregate, 100*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "scaling_advisor_stage_duration_seconds")
}
