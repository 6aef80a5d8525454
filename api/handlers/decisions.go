package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/scaling-advisor/internal/store"
	"github.com/OldStager01/scaling-advisor/pkg/models"
)

type DecisionHandler struct {
	store      store.Store
	deployment models.DeploymentRef
	limits     QueryLimits
}

func NewDecisionHandler(s store.Store, deployment models.DeploymentRef, limits QueryLimits) *DecisionHandler {
	return &DecisionHandler{store: s, deployment: deployment, limits: limits}
}

// Latest godoc
// @Summary Latest cycle
// @Description The most recent audit record of a deployment
// @Tags Decisions
// @Produce json
// @Security BearerAuth
// @Param deployment query string false "Deployment name, defaults to the configured one"
// @Success 200 {object} models.AuditRecord
// @Failure 404 {object} map[string]string
// @Router /v1/decisions/latest [get]
func (h *DecisionHandler) Latest(c *gin.Context) {
	ref := deploymentRef(c, h.deployment)

	rec, ok, err := h.store.GetLatest(c.Request.Context(), ref)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read latest decision"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no decision recorded for " + ref.String()})
		return
	}

	c.JSON(http.StatusOK, rec)
}

// History godoc
// @Summary Recent cycles
// @Description Newest-first cycles held in the hot store
// @Tags Decisions
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum records"
// @Success 200 {object} map[string]interface{}
// @Router /v1/decisions/history [get]
func (h *DecisionHandler) History(c *gin.Context) {
	ref := deploymentRef(c, h.deployment)

	records, err := h.store.Recent(c.Request.Context(), ref, h.limits.parse(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read decision history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deployment": ref.String(),
		"data":       records,
		"count":      len(records),
	})
}
