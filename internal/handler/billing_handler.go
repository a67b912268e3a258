package handler

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/signalforge/zairix-api/internal/dto"
	"github.com/signalforge/zairix-api/internal/repository"
	"github.com/signalforge/zairix-api/internal/service"
	"go.uber.org/zap"
)

// BillingHandler receives billing provider webhooks.
type BillingHandler struct {
	billing       service.BillingService
	webhookSecret string
	logger        *zap.Logger
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(billing service.BillingService, webhookSecret string, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{
		billing:       billing,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// Webhook validates the shared-secret header and applies the plan
// change idempotently. Unknown users are a 404 so the provider retries
// after signup completes.
func (h *BillingHandler) Webhook(c *gin.Context) {
	if h.webhookSecret == "" {
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "not_configured"})
		return
	}

	got := c.GetHeader("X-Webhook-Secret")
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.webhookSecret)) != 1 {
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: "forbidden"})
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		bindError(c, err)
		return
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))

	var payload dto.BillingWebhook
	if err := json.Unmarshal(raw, &payload); err != nil {
		bindError(c, err)
		return
	}
	if payload.ExternalRef == "" || payload.Email == "" || payload.Plan == "" || payload.Status == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request"})
		return
	}

	if err := h.billing.ProcessWebhook(c.Request.Context(), &payload, raw); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not_found"})
			return
		}
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{OK: true})
}
