package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/scaling-advisor/internal/logger"
	"github.com/OldStager01/scaling-advisor/pkg/database/queries"
	"github.com/OldStager01/scaling-advisor/pkg/models"
)

// AuditQuerier reads the durable audit trail.
type AuditQuerier interface {
	Recent(ctx context.Context, ref models.DeploymentRef, limit int) ([]models.AuditRecord, error)
	Stats(ctx context.Context, ref models.DeploymentRef, since time.Time) (*queries.AuditStats, error)
}

type AuditHandler struct {
	repo       AuditQuerier
	deployment models.DeploymentRef
	limits     QueryLimits
	now        func() time.Time
}

// NewAuditHandler accepts a nil repo; every request then answers 503.
func NewAuditHandler(repo AuditQuerier, deployment models.DeploymentRef, limits QueryLimits) *AuditHandler {
	return &AuditHandler{
		repo:       repo,
		deployment: deployment,
		limits:     limits,
		now:        time.Now,
	}
}

func (h *AuditHandler) available(c *gin.Context) bool {
	if h.repo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit database is not configured"})
		return false
	}
	return true
}

// Recent godoc
// @Summary Recent audit records
// @Description Newest-first audit records for a deployment
// @Tags Audit
// @Produce json
// @Security BearerAuth
// @Param deployment query string false "Deployment name, defaults to the configured one"
// @Param limit query int false "Maximum records"
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]string
// @Router /v1/audit/recent [get]
func (h *AuditHandler) Recent(c *gin.Context) {
	if !h.available(c) {
		return
	}

	ref := deploymentRef(c, h.deployment)
	limit := h.limits.parse(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	records, err := h.repo.Recent(ctx, ref, limit)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Error("failed to fetch audit records")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch audit records"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deployment": ref.String(),
		"data":       records,
		"count":      len(records),
	})
}

// Stats godoc
// @Summary Audit statistics
// @Description Cycle, action and failure counts since a point in time
// @Tags Audit
// @Produce json
// @Security BearerAuth
// @Param since query string false "RFC3339 start time"
// @Param range query string false "Relative window such as 24h or 7d"
// @Success 200 {object} queries.AuditStats
// @Failure 503 {object} map[string]string
// @Router /v1/audit/stats [get]
func (h *AuditHandler) Stats(c *gin.Context) {
	if !h.available(c) {
		return
	}

	ref := deploymentRef(c, h.deployment)
	since := parseSince(c, h.now(), 24*time.Hour)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	stats, err := h.repo.Stats(ctx, ref, since)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Error("failed to compute audit stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute audit stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
