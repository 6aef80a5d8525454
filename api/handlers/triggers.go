package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/scaling-advisor/api/middleware"
	"github.com/OldStager01/scaling-advisor/pkg/models"
)

// CycleRunner runs one scaling cycle for a raw trigger payload.
type CycleRunner interface {
	Trigger(ctx context.Context, raw []byte) models.CycleResponse
}

type TriggerHandler struct {
	runner CycleRunner
}

func NewTriggerHandler(runner CycleRunner) *TriggerHandler {
	return &TriggerHandler{runner: runner}
}

// Trigger godoc
// @Summary Run a scaling cycle
// @Description The request body is treated as the raw trigger: an alarm notification envelope, a scheduler payload, or anything else (treated as scheduled)
// @Tags Triggers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.CycleResponse
// @Failure 413 {object} map[string]string
// @Failure 500 {object} models.CycleResponse
// @Router /v1/triggers [post]
func (h *TriggerHandler) Trigger(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		if middleware.IsBodyTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "trigger body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read trigger body"})
		return
	}

	resp := h.runner.Trigger(c.Request.Context(), raw)

	code := http.StatusOK
	if !resp.OK() {
		code = http.StatusInternalServerError
	}
	c.JSON(code, resp)
}
