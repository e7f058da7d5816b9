package handlers

import (
	"net/http"
	"time"

	"turnero/models"
	"turnero/services/conversation"

	"github.com/gin-gonic/gin"
)

// BotHandler exposes the conversation engine over plain HTTP, mainly for
// local testing and non-WhatsApp channels. It computes the reply without
// sending anything.
type BotHandler struct {
	Orchestrator *conversation.Orchestrator
}

func NewBotHandler(orch *conversation.Orchestrator) *BotHandler {
	return &BotHandler{Orchestrator: orch}
}

type botMessageRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
	Name string `json:"name"`
	Text string `json:"text" binding:"required"`
}

func (bh *BotHandler) MessageHandler(c *gin.Context) {
	var req botMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	reply, err := bh.Orchestrator.Reply(c.Request.Context(), models.Inbound{
		FromE164:   req.From,
		ToE164:     req.To,
		FromName:   req.Name,
		Text:       req.Text,
		ReceivedAt: time.Now().UTC(),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
