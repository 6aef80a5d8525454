package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/scaling-advisor/pkg/config"
	"github.com/OldStager01/scaling-advisor/pkg/models"
)

// QueryLimits bounds the limit query parameter.
type QueryLimits struct {
	Default int
	Max     int
}

func NewQueryLimits(cfg config.APIConfig) QueryLimits {
	l := QueryLimits{Default: cfg.DefaultLimit, Max: cfg.MaxLimit}
	if l.Default <= 0 {
		l.Default = 20
	}
	if l.Max <= 0 {
		l.Max = 100
	}
	if l.Default > l.Max {
		l.Default = l.Max
	}
	return l
}

func (l QueryLimits) parse(c *gin.Context) int {
	limit := l.Default
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = min(parsed, l.Max)
		}
	}
	return limit
}

// parseSince reads ?since= (RFC3339) or ?range= (30m, 24h, 7d). Range wins.
func parseSince(c *gin.Context, now time.Time, fallback time.Duration) time.Time {
	since := now.Add(-fallback)

	if sinceStr := c.Query("since"); sinceStr != "" {
		if parsed, err := time.Parse(time.RFC3339, sinceStr); err == nil {
			since = parsed
		}
	}
	if rangeStr := c.Query("range"); rangeStr != "" {
		if d, ok := parseRange(rangeStr); ok {
			since = now.Add(-d)
		}
	}
	return since
}

func parseRange(s string) (time.Duration, bool) {
	if len(s) < 2 {
		return 0, false
	}
	value, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || value <= 0 {
		return 0, false
	}

	switch s[len(s)-1] {
	case 'm':
		return time.Duration(value) * time.Minute, true
	case 'h':
		return time.Duration(value) * time.Hour, true
	case 'd':
		return time.Duration(value) * 24 * time.Hour, true
	}
	return 0, false
}

// deploymentRef overrides parts of the default deployment from the query.
func deploymentRef(c *gin.Context, def models.DeploymentRef) models.DeploymentRef {
	ref := def
	if v := c.Query("cluster"); v != "" {
		ref.Cluster = v
	}
	if v := c.Query("namespace"); v != "" {
		ref.Namespace = v
	}
	if v := c.Query("deployment"); v != "" {
		ref.Name = v
	}
	return ref
}
