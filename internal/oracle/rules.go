package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/OldStager01/scaling-advisor/pkg/models"
)

type RulesConfig struct {
	Deployment models.DeploymentRef
	Replicas   ReplicaReader

	CPUSeries             string
	MemorySeries          string
	EmergencyCPUThreshold float64
	CPUHighThreshold      float64
	CPULowThreshold       float64
	MemoryHighThreshold   float64
	TargetCPU             float64
	MaxScaleStep          int
}

// RulesOracle is a deterministic threshold policy. It answers in the same
// JSON shape as a model would so the decision engine treats both alike.
type RulesOracle struct {
	config RulesConfig
}

type ruleReply struct {
	Action         models.ScalingAction `json:"action"`
	TargetReplicas int                  `json:"target_replicas"`
	Confidence     float64              `json:"confidence"`
	Reasoning      string               `json:"reasoning"`
	Urgency        models.Urgency       `json:"urgency"`
}

func NewRulesOracle(cfg RulesConfig) *RulesOracle {
	if cfg.CPUSeries == "" {
		cfg.CPUSeries = "cpu_util"
	}
	if cfg.MemorySeries == "" {
		cfg.MemorySeries = "mem_util"
	}
	if cfg.EmergencyCPUThreshold == 0 {
		cfg.EmergencyCPUThreshold = 95.0
	}
	if cfg.CPUHighThreshold == 0 {
		cfg.CPUHighThreshold = 80.0
	}
	if cfg.CPULowThreshold == 0 {
		cfg.CPULowThreshold = 30.0
	}
	if cfg.MemoryHighThreshold == 0 {
		cfg.MemoryHighThreshold = 85.0
	}
	if cfg.TargetCPU == 0 {
		cfg.TargetCPU = 70.0
	}
	if cfg.MaxScaleStep == 0 {
		cfg.MaxScaleStep = 3
	}

	return &RulesOracle{config: cfg}
}

func (o *RulesOracle) Name() string { return "rules" }

func (o *RulesOracle) Invoke(ctx context.Context, req Request) (string, error) {
	current, err := o.config.Replicas.GetReplicas(ctx, o.config.Deployment)
	if err != nil {
		return "", fmt.Errorf("%w: read replicas: %v", ErrInvocationFailed, err)
	}

	reply := o.evaluate(req, current)

	body, err := json.Marshal(reply)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvocationFailed, err)
	}
	return string(body), nil
}

func (o *RulesOracle) evaluate(req Request, current int) ruleReply {
	cfg := o.config
	cpu := req.Metrics.Get(cfg.CPUSeries)
	mem := req.Metrics.Get(cfg.MemorySeries)

	if cpu.Current >= cfg.EmergencyCPUThreshold {
		return scaleUp(current+cfg.MaxScaleStep, models.UrgencyHigh, 0.95, "emergency_cpu_critical")
	}

	if current < req.Bounds.Max {
		switch {
		case cpu.Current >= cfg.CPUHighThreshold && cpu.Trend == models.TrendIncreasing:
			return scaleUp(current+o.scaleUpDelta(cpu.Current, current), models.UrgencyMedium, 0.85, "cpu_high_rising")
		case cpu.Current >= cfg.CPUHighThreshold && req.Alarm.State == models.AlarmStateAlarm:
			return scaleUp(current+o.scaleUpDelta(cpu.Current, current), models.UrgencyMedium, 0.8, "cpu_high_alarm")
		case cpu.Average >= cfg.CPUHighThreshold:
			return scaleUp(current+o.scaleUpDelta(cpu.Average, current), models.UrgencyMedium, 0.75, "sustained_high_cpu")
		case mem.Current >= cfg.MemoryHighThreshold && mem.Trend != models.TrendDecreasing:
			return scaleUp(current+1, models.UrgencyLow, 0.7, "memory_pressure")
		}
	}

	if current > req.Bounds.Min &&
		cpu.Current < cfg.CPULowThreshold &&
		cpu.Average < cfg.CPULowThreshold &&
		cpu.Trend != models.TrendIncreasing &&
		mem.Current < cfg.MemoryHighThreshold {
		return ruleReply{
			Action:         models.ActionScaleDown,
			TargetReplicas: current - 1,
			Confidence:     0.7,
			Reasoning:      "low_cpu_not_rising",
			Urgency:        models.UrgencyLow,
		}
	}

	return ruleReply{
		Action:         models.ActionNoAction,
		TargetReplicas: current,
		Confidence:     0.6,
		Reasoning:      "within_normal_parameters",
		Urgency:        models.UrgencyLow,
	}
}

// scaleUpDelta sizes a step toward the target utilization, between one
// replica and MaxScaleStep.
func (o *RulesOracle) scaleUpDelta(utilization float64, current int) int {
	if current <= 0 || utilization <= 0 {
		return 1
	}
	ideal := int(math.Ceil(float64(current) * utilization / o.config.TargetCPU))
	delta := ideal - current
	return max(1, min(delta, o.config.MaxScaleStep))
}

func scaleUp(target int, urgency models.Urgency, confidence float64, reason string) ruleReply {
	return ruleReply{
		Action:         models.ActionScaleUp,
		TargetReplicas: target,
		Confidence:     confidence,
		Reasoning:      reason,
		Urgency:        urgency,
	}
}
