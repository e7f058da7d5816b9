package handlers

import (
	"io"
	"net/http"
	"time"

	"turnero/services/conversation"
	"turnero/services/messaging"
	"turnero/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookHandler terminates the WhatsApp Cloud API webhook: the GET
// verification handshake and the POST message delivery.
type WebhookHandler struct {
	Orchestrator *conversation.Orchestrator
	VerifyToken  string
}

func NewWebhookHandler(orch *conversation.Orchestrator, verifyToken string) *WebhookHandler {
	return &WebhookHandler{Orchestrator: orch, VerifyToken: verifyToken}
}

// VerifyHandler answers Meta's subscription handshake by echoing the
// challenge when the verify token matches.
func (wh *WebhookHandler) VerifyHandler(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == wh.VerifyToken {
		c.String(http.StatusOK, challenge)
		return
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "Verification failed"})
}

// ReceiveHandler ingests a webhook delivery. It always answers 200 so Meta
// does not redeliver; processing failures are logged, never surfaced.
func (wh *WebhookHandler) ReceiveHandler(c *gin.Context) {
	logger := utils.GetLogger()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		logger.Warn("failed to read webhook body", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	inbound, err := messaging.ParseMetaWebhook(body, time.Now().UTC())
	if err != nil {
		logger.Warn("unparseable webhook payload", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	for _, in := range inbound {
		if err := wh.Orchestrator.HandleInbound(c.Request.Context(), in); err != nil {
			logger.Error("failed to handle inbound message",
				zap.String("from", in.FromE164), zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "processed", "messages": len(inbound)})
}
