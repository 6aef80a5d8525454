// Package oracle provides the policy functions the decision engine consults.
// Every implementation answers with text that should contain one JSON
// object of the form
//
//	{"action": "...", "target_replicas": n, "confidence": x, "reasoning": "...", "urgency": "..."}
//
// Validation and bounds clamping happen in the decision engine, not here.
package oracle

import (
	"context"
	"errors"
	"time"

	"github.com/OldStager01/scaling-advisor/pkg/models"
)

var ErrInvocationFailed = errors.New("oracle invocation failed")

const DefaultMaxTokens int32 = 500

// InferenceConfig is passed to the model as given. A zero Temperature is a
// valid, fully deterministic setting.
type InferenceConfig struct {
	Temperature float32
	MaxTokens   int32
}

// Request carries the rendered prompt along with the structured inputs it
// was rendered from. Text-model oracles read Prompt, rule-based ones read
// the structured fields.
type Request struct {
	Prompt    string
	Alarm     models.AlarmContext
	Metrics   models.MetricsSnapshot
	Bounds    models.Bounds
	Inference InferenceConfig
}

type Oracle interface {
	Name() string
	Invoke(ctx context.Context, req Request) (string, error)
}

// ReplicaReader reads the live replica count.
type ReplicaReader interface {
	GetReplicas(ctx context.Context, ref models.DeploymentRef) (int, error)
}

type timeoutOracle struct {
	Oracle
	timeout time.Duration
}

// WithTimeout bounds every Invoke of o. A non-positive timeout returns o.
func WithTimeout(o Oracle, timeout time.Duration) Oracle {
	if timeout <= 0 {
		return o
	}
	return &timeoutOracle{Oracle: o, timeout: timeout}
}

func (t *timeoutOracle) Invoke(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Oracle.Invoke(ctx, req)
}
