package handlers

import (
	"context"
	"net/http"

	"fundis/config"
	"fundis/models"
	"fundis/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InboundHandler consumes one parsed inbound chat message.
type InboundHandler interface {
	HandleInbound(ctx context.Context, waID, text, profileName string) error
}

// WebhookHandler receives WhatsApp Cloud API traffic.
type WebhookHandler struct {
	Engine InboundHandler
}

// Verify answers Meta's webhook subscription handshake.
func (h *WebhookHandler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == config.AppConfig.WhatsAppVerifyToken {
		c.String(http.StatusOK, challenge)
		return
	}
	c.String(http.StatusForbidden, "verification failed")
}

// Receive handles inbound message notifications. The response is
// always 200: WhatsApp retries non-2xx deliveries and a permanent
// processing failure must not turn into an infinite redelivery loop.
func (h *WebhookHandler) Receive(c *gin.Context) {
	logger := utils.GetLogger()

	var payload models.WhatsAppWebhook
	if err := c.ShouldBindJSON(&payload); err != nil {
		logger.Warn("Malformed webhook payload", zap.Error(err))
		c.String(http.StatusOK, "OK")
		return
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			profileName := ""
			if len(change.Value.Contacts) > 0 {
				profileName = change.Value.Contacts[0].Profile.Name
			}
			for _, msg := range change.Value.Messages {
				if msg.Type != "text" || msg.Text == nil {
					continue
				}
				if err := h.Engine.HandleInbound(c.Request.Context(), msg.From, msg.Text.Body, profileName); err != nil {
					logger.Error("Failed to process inbound message",
						zap.String("from", msg.From), zap.Error(err))
				}
			}
		}
	}

	c.String(http.StatusOK, "OK")
}
