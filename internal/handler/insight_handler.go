package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/signalforge/zairix-api/internal/dto"
	"github.com/signalforge/zairix-api/internal/service"
	"go.uber.org/zap"
)

// InsightHandler serves AI-assisted insight generation. The endpoint
// is PRO-gated with a per-day cap.
type InsightHandler struct {
	insights service.InsightService
	logger   *zap.Logger
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(insights service.InsightService, logger *zap.Logger) *InsightHandler {
	return &InsightHandler{
		insights: insights,
		logger:   logger,
	}
}

// Generate produces and stores one insight for the caller.
func (h *InsightHandler) Generate(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthenticated"})
		return
	}

	var req dto.InsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.insights.Generate(c.Request.Context(), user, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
