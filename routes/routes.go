package routes

import (
	"net/http"
	"time"

	"turnero/handlers"
	"turnero/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterWebhookRoutes registers the WhatsApp Cloud API webhook endpoints.
func RegisterWebhookRoutes(r *gin.Engine, wh *handlers.WebhookHandler) {
	api := r.Group("/api/webhook")
	{
		api.GET("", wh.VerifyHandler)
		api.POST("", wh.ReceiveHandler)
	}
}

// RegisterBotRoutes registers the channel-agnostic conversation endpoint.
func RegisterBotRoutes(r *gin.Engine, bh *handlers.BotHandler) {
	api := r.Group("/api/bot")
	{
		api.POST("/message", bh.MessageHandler)
	}
}

// RegisterAdminRoutes registers the professional-facing management surface.
func RegisterAdminRoutes(r *gin.Engine, ah *handlers.AdminHandler) {
	api := r.Group("/api/admin")
	{
		api.POST("/token", ah.TokenHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthAdminMiddleware())
		api.GET("/professionals/:id/appointments", ah.ListAppointmentsHandler)
		api.PUT("/professionals/:id/appointments/:apptID/confirm", ah.ConfirmAppointmentHandler)
		api.PUT("/professionals/:id/appointments/:apptID/cancel", ah.CancelAppointmentHandler)
		api.POST("/professionals/:id/blackouts", ah.CreateBlackoutHandler)
		api.GET("/professionals/:id/counterparts/:cpID/messages", ah.ListMessagesHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Turnero"})
	})
}

// RegisterRoutes wires CORS and every route group onto the router.
func RegisterRoutes(r *gin.Engine, wh *handlers.WebhookHandler, bh *handlers.BotHandler, ah *handlers.AdminHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterWebhookRoutes(r, wh)
	RegisterBotRoutes(r, bh)
	RegisterAdminRoutes(r, ah)
}
