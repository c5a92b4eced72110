package routes

import (
	"turnero/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterWebhookRoutes sets up the inbound channel endpoints.
func RegisterWebhookRoutes(r *gin.Engine, wh *handlers.WebhookHandler) {
	webhook := r.Group("/webhook")
	{
		webhook.GET("/messages", wh.VerifyWebhook) // channel subscription handshake
		webhook.POST("/messages", wh.ReceiveMessage)
	}
}

// RegisterPaymentRoutes sets up the payment provider callback endpoint.
func RegisterPaymentRoutes(r *gin.Engine, ph *handlers.PaymentWebhookHandler) {
	r.POST("/webhook/payments", ph.HandleEvent)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints.
func RegisterRoutes(r *gin.Engine, wh *handlers.WebhookHandler, ph *handlers.PaymentWebhookHandler) {
	RegisterWebhookRoutes(r, wh)
	RegisterPaymentRoutes(r, ph)
	RegisterHealthRoute(r)
}
