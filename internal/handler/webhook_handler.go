package handler

import (
	"io"
	"net/http"

	"courtside/internal/domain"
	"courtside/internal/service"
	"courtside/pkg/gateway"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SignatureHeader carries the gateway's hex HMAC-SHA256 of the raw body.
const SignatureHeader = "X-Gateway-Signature"

type WebhookHandler struct {
	reconciler *service.Reconciler
	secret     string
	logger     zerolog.Logger
}

func NewWebhookHandler(reconciler *service.Reconciler, secret string, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler, secret: secret, logger: logger}
}

// Handle processes a gateway callback. Signature verification runs against
// the exact raw bytes before any parsing or storage access; a 200 response
// acknowledges the delivery, a 5xx asks the gateway to redeliver.
func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	if !gateway.VerifySignature(h.secret, body, c.GetHeader(SignatureHeader)) {
		h.logger.Warn().Str("ip", c.ClientIP()).Msg("webhook signature verification failed")
		respondError(c, domain.ErrBadSignature)
		return
	}

	ev, err := gateway.ParseEvent(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
		return
	}

	if err := h.reconciler.Apply(c.Request.Context(), body, ev); err != nil {
		h.logger.Error().Err(err).Str("event_type", ev.Type).Msg("webhook apply failed, gateway will retry")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "temporarily unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
