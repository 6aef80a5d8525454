package decision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/OldStager01/scaling-advisor/internal/logger"
	"github.com/OldStager01/scaling-advisor/internal/oracle"
	"github.com/OldStager01/scaling-advisor/pkg/models"
)

// ErrOracleContract marks replies that cannot be turned into a decision.
var ErrOracleContract = errors.New("oracle reply violates contract")

type Config struct {
	Deployment  models.DeploymentRef
	Window      time.Duration
	Inference   oracle.InferenceConfig
	SeriesOrder []string
}

type Engine struct {
	config Config
	oracle oracle.Oracle
}

func NewEngine(cfg Config, o oracle.Oracle) *Engine {
	if cfg.Window <= 0 {
		cfg.Window = 30 * time.Minute
	}
	if cfg.Inference.MaxTokens <= 0 {
		cfg.Inference.MaxTokens = oracle.DefaultMaxTokens
	}

	return &Engine{config: cfg, oracle: o}
}

// Decide asks the oracle for a recommendation and returns it validated and
// clamped into bounds. Oracle failures are returned wrapped; malformed
// replies wrap ErrOracleContract.
func (e *Engine) Decide(ctx context.Context, alarm models.AlarmContext, metrics models.MetricsSnapshot, bounds models.Bounds) (*models.ScalingDecision, error) {
	text, err := e.renderPrompt(alarm, metrics, bounds)
	if err != nil {
		return nil, err
	}

	reply, err := e.oracle.Invoke(ctx, oracle.Request{
		Prompt:    text,
		Alarm:     alarm,
		Metrics:   metrics,
		Bounds:    bounds,
		Inference: e.config.Inference,
	})
	if err != nil {
		return nil, fmt.Errorf("%s oracle: %w", e.oracle.Name(), err)
	}

	decision, err := ParseReply(reply, bounds)
	if err != nil {
		logger.FromContext(ctx).WithField("reply", truncate(reply, 500)).Warn("Unusable oracle reply")
		return nil, err
	}

	logger.FromContext(ctx).WithFields(map[string]interface{}{
		"action":     decision.Action,
		"target":     decision.TargetReplicas,
		"confidence": decision.Confidence,
		"urgency":    decision.Urgency,
	}).Infof("Decision: %s (%s)", decision.Action, decision.Reasoning)

	return decision, nil
}

// Prompt renders the request text without invoking the oracle.
func (e *Engine) Prompt(alarm models.AlarmContext, metrics models.MetricsSnapshot, bounds models.Bounds) (string, error) {
	return e.renderPrompt(alarm, metrics, bounds)
}
