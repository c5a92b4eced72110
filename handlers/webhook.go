package handlers

import (
	"net/http"

	"turnero/services/conversation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookHandler receives inbound channel events and feeds them to the
// conversation engine. The transport is acknowledged unconditionally;
// processing failures are logged, never bounced back to the channel.
type WebhookHandler struct {
	Engine      *conversation.Engine
	VerifyToken string
	Logger      *zap.Logger
}

func NewWebhookHandler(engine *conversation.Engine, verifyToken string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{Engine: engine, VerifyToken: verifyToken, Logger: logger}
}

// VerifyWebhook answers the channel's subscription handshake.
func (h *WebhookHandler) VerifyWebhook(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == h.VerifyToken {
		c.String(http.StatusOK, challenge)
		return
	}
	c.Status(http.StatusForbidden)
}

type inboundPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []struct {
					From string `json:"from"`
					Type string `json:"type"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// ReceiveMessage ingests inbound text messages. Non-text message types are
// acknowledged and dropped.
func (h *WebhookHandler) ReceiveMessage(c *gin.Context) {
	var payload inboundPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.Logger.Warn("unparseable webhook payload", zap.Error(err))
		c.Status(http.StatusOK)
		return
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if msg.Type != "text" || msg.From == "" {
					continue
				}
				if err := h.Engine.HandleMessage(c.Request.Context(), msg.From, msg.Text.Body); err != nil {
					h.Logger.Error("message handling failed",
						zap.String("customer", msg.From), zap.Error(err))
				}
			}
		}
	}
	c.Status(http.StatusOK)
}
