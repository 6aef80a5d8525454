package decision

import (
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/OldStager01/scaling-advisor/pkg/models"
)

const fence = "```"

// StripFences returns the body of the first fenced block in reply, without
// its language tag. A reply without fences is returned trimmed.
func StripFences(reply string) string {
	s := strings.TrimSpace(reply)
	start := strings.Index(s, fence)
	if start < 0 {
		return s
	}

	body := s[start+len(fence):]
	tag := strings.IndexFunc(body, func(r rune) bool { return !isTagRune(r) })
	if tag > 0 && startsBody(body[tag:]) {
		body = body[tag:]
	} else if tag < 0 {
		body = ""
	}

	if end := strings.Index(body, fence); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

func isTagRune(r rune) bool {
	return r == '_' || r == '-' || r == '+' || r == '.' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func startsBody(s string) bool {
	if s == "" {
		return true
	}
	switch s[0] {
	case ' ', '\t', '\r', '\n', '{', '[':
		return true
	}
	return false
}

// ParseReply validates an oracle reply and clamps its target into bounds.
// Invalid JSON and a missing or unknown action are contract violations.
// A missing or non-numeric target becomes bounds.Min; confidence is
// limited to [0,1]; an unknown urgency becomes LOW.
func ParseReply(reply string, bounds models.Bounds) (*models.ScalingDecision, error) {
	body := StripFences(reply)
	if !gjson.Valid(body) {
		return nil, fmt.Errorf("%w: reply is not valid JSON: %s", ErrOracleContract, truncate(body, 120))
	}

	r := gjson.Parse(body)
	if !r.IsObject() {
		return nil, fmt.Errorf("%w: reply is not a JSON object", ErrOracleContract)
	}

	actionField := r.Get("action")
	if actionField.Type != gjson.String {
		return nil, fmt.Errorf("%w: missing action", ErrOracleContract)
	}
	action := models.ScalingAction(strings.ToUpper(strings.TrimSpace(actionField.Str)))
	if !action.Valid() {
		return nil, fmt.Errorf("%w: unknown action %q", ErrOracleContract, actionField.Str)
	}

	return &models.ScalingDecision{
		Action:         action,
		TargetReplicas: targetReplicas(r.Get("target_replicas"), bounds),
		Confidence:     confidence(r.Get("confidence")),
		Reasoning:      r.Get("reasoning").String(),
		Urgency:        urgency(r.Get("urgency")),
	}, nil
}

func targetReplicas(field gjson.Result, bounds models.Bounds) int {
	if field.Type != gjson.Number || math.IsNaN(field.Num) {
		return bounds.Min
	}
	v := math.Round(field.Num)
	switch {
	case v <= float64(bounds.Min):
		return bounds.Min
	case v >= float64(bounds.Max):
		return bounds.Max
	default:
		return bounds.Clamp(int(v))
	}
}

func confidence(field gjson.Result) float64 {
	if field.Type != gjson.Number {
		return 0
	}
	return math.Max(0, math.Min(1, field.Num))
}

func urgency(field gjson.Result) models.Urgency {
	u := models.Urgency(strings.ToUpper(strings.TrimSpace(field.String())))
	if !u.Valid() {
		return models.UrgencyLow
	}
	return u
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
