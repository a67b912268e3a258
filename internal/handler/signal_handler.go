package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/signalforge/zairix-api/internal/dto"
	"github.com/signalforge/zairix-api/internal/service"
	"go.uber.org/zap"
)

// SignalHandler serves market signals.
type SignalHandler struct {
	signals service.SignalService
	logger  *zap.Logger
}

// NewSignalHandler creates a new signal handler
func NewSignalHandler(signals service.SignalService, logger *zap.Logger) *SignalHandler {
	return &SignalHandler{
		signals: signals,
		logger:  logger,
	}
}

// List returns the signals visible at the caller's plan rank.
func (h *SignalHandler) List(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthenticated"})
		return
	}

	signals, err := h.signals.List(c.Request.Context(), user)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	resp := dto.SignalsResponse{Signals: make([]dto.SignalInfo, 0, len(signals))}
	for _, s := range signals {
		resp.Signals = append(resp.Signals, dto.SignalInfo{
			ID:         s.ID,
			Symbol:     s.Symbol,
			Title:      s.Title,
			Direction:  s.Direction,
			Confidence: s.Confidence,
			MinPlan:    s.MinPlan,
			CreatedAt:  s.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, resp)
}
