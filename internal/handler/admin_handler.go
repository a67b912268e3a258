package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/signalforge/zairix-api/internal/domain"
	"github.com/signalforge/zairix-api/internal/dto"
	"github.com/signalforge/zairix-api/internal/repository"
	"go.uber.org/zap"
)

// AdminHandler serves admin-only operations.
type AdminHandler struct {
	signalRepo repository.SignalRepository
	logger     *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(signalRepo repository.SignalRepository, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		signalRepo: signalRepo,
		logger:     logger,
	}
}

type createSignalRequest struct {
	Symbol     string `json:"symbol" binding:"required"`
	Title      string `json:"title" binding:"required"`
	Direction  string `json:"direction" binding:"required,oneof=LONG SHORT"`
	Confidence int    `json:"confidence" binding:"min=0,max=100"`
	MinPlan    string `json:"min_plan"`
}

// CreateSignal publishes a new market signal.
func (h *AdminHandler) CreateSignal(c *gin.Context) {
	var req createSignalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	minPlan := domain.Plan(req.MinPlan)
	if req.MinPlan == "" {
		minPlan = domain.PlanFree
	}
	if !minPlan.Valid() {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: "unknown min_plan"})
		return
	}

	signal := &domain.Signal{
		Symbol:     req.Symbol,
		Title:      req.Title,
		Direction:  req.Direction,
		Confidence: req.Confidence,
		MinPlan:    minPlan,
	}

	if err := h.signalRepo.Create(c.Request.Context(), signal); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, signal)
}
