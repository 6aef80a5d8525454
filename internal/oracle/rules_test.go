package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/scaling-advisor/pkg/models"
)

type fixedReplicas struct {
	n   int
	err error
}

func (f fixedReplicas) GetReplicas(context.Context, models.DeploymentRef) (int, error) {
	return f.n, f.err
}

func invokeRules(t *testing.T, current int, req Request) ruleReply {
	t.Helper()
	o := NewRulesOracle(RulesConfig{Replicas: fixedReplicas{n: current}})
	raw, err := o.Invoke(context.Background(), req)
	require.NoError(t, err)

	var reply ruleReply
	require.NoError(t, json.Unmarshal([]byte(raw), &reply))
	return reply
}

func TestRulesOracle_Invoke(t *testing.T) {
	bounds := models.Bounds{Min: 2, Max: 10}

	tests := []struct {
		name           string
		current        int
		alarm          models.AlarmContext
		metrics        models.MetricsSnapshot
		expectedAction models.ScalingAction
		expectedTarget int
		expectedReason string
	}{
		{
			name:    "emergency cpu",
			current: 4,
			metrics: models.MetricsSnapshot{
				"cpu_util": {ID: "cpu_util", Current: 97, Average: 90, Trend: models.TrendStable},
			},
			expectedAction: models.ActionScaleUp,
			expectedTarget: 7,
			expectedReason: "emergency_cpu_critical",
		},
		{
			name:    "high and rising",
			current: 4,
			metrics: models.MetricsSnapshot{
				"cpu_util": {ID: "cpu_util", Current: 84, Average: 70, Trend: models.TrendIncreasing},
			},
			expectedAction: models.ActionScaleUp,
			expectedTarget: 5,
			expectedReason: "cpu_high_rising",
		},
		{
			name:    "high with firing alarm",
			current: 2,
			alarm:   models.AlarmContext{Name: "HighCPU", State: models.AlarmStateAlarm},
			metrics: models.MetricsSnapshot{
				"cpu_util": {ID: "cpu_util", Current: 90, Average: 60, Trend: models.TrendStable},
			},
			expectedAction: models.ActionScaleUp,
			expectedTarget: 3,
			expectedReason: "cpu_high_alarm",
		},
		{
			name:    "sustained high average",
			current: 4,
			metrics: models.MetricsSnapshot{
				"cpu_util": {ID: "cpu_util", Current: 78, Average: 88, Trend: models.TrendStable},
			},
			expectedAction: models.ActionScaleUp,
			expectedTarget: 6,
			expectedReason: "sustained_high_cpu",
		},
		{
			name:    "memory pressure",
			current: 3,
			metrics: models.MetricsSnapshot{
				"cpu_util": {ID: "cpu_util", Current: 50, Average: 50, Trend: models.TrendStable},
				"mem_util": {ID: "mem_util", Current: 90, Average: 80, Trend: models.TrendIncreasing},
			},
			expectedAction: models.ActionScaleUp,
			expectedTarget: 4,
			expectedReason: "memory_pressure",
		},
		{
			name:    "low cpu scales down by one",
			current: 5,
			metrics: models.MetricsSnapshot{
				"cpu_util": {ID: "cpu_util", Current: 12, Average: 15, Trend: models.TrendDecreasing},
			},
			expectedAction: models.ActionScaleDown,
			expectedTarget: 4,
			expectedReason: "low_cpu_not_rising",
		},
		{
			name:    "low but rising holds",
			current: 5,
			metrics: models.MetricsSnapshot{
				"cpu_util": {ID: "cpu_util", Current: 25, Average: 15, Trend: models.TrendIncreasing},
			},
			expectedAction: models.ActionNoAction,
			expectedTarget: 5,
			expectedReason: "within_normal_parameters",
		},
		{
			name:           "low at minimum holds",
			current:        2,
			metrics:        models.MetricsSnapshot{},
			expectedAction: models.ActionNoAction,
			expectedTarget: 2,
			expectedReason: "within_normal_parameters",
		},
		{
			name:    "high at maximum holds",
			current: 10,
			metrics: models.MetricsSnapshot{
				"cpu_util": {ID: "cpu_util", Current: 85, Average: 85, Trend: models.TrendIncreasing},
			},
			expectedAction: models.ActionNoAction,
			expectedTarget: 10,
			expectedReason: "within_normal_parameters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := invokeRules(t, tt.current, Request{Alarm: tt.alarm, Metrics: tt.metrics, Bounds: bounds})

			assert.Equal(t, tt.expectedAction, reply.Action)
			assert.Equal(t, tt.expectedTarget, reply.TargetReplicas)
			assert.Equal(t, tt.expectedReason, reply.Reasoning)
			assert.True(t, reply.Urgency.Valid())
			assert.GreaterOrEqual(t, reply.Confidence, 0.0)
			assert.LessOrEqual(t, reply.Confidence, 1.0)
		})
	}
}

func TestRulesOracle_ReplicaReadFails(t *testing.T) {
	o := NewRulesOracle(RulesConfig{Replicas: fixedReplicas{err: errors.New("forbidden")}})

	_, err := o.Invoke(context.Background(), Request{})

	assert.ErrorIs(t, err, ErrInvocationFailed)
}

func TestRulesOracle_ScaleUpDeltaIsCapped(t *testing.T) {
	o := NewRulesOracle(RulesConfig{})

	assert.Equal(t, 1, o.scaleUpDelta(71, 4))
	assert.Equal(t, 3, o.scaleUpDelta(200, 4))
	assert.Equal(t, 1, o.scaleUpDelta(90, 0))
}
