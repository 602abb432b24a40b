package apihandlers

import (
	"promptpilot/internal/app"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// NewRouter registers every route on a fresh gin engine.
func NewRouter(a *app.App) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.WithField("route", c.FullPath()).Errorf("Recovered from panic: %v", recovered)
		Internal(c, "Internal server error")
	}))
	if a.Metrics != nil && a.Config.Metrics.Enabled {
		r.Use(a.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(a.Metrics.Handler()))
	}

	h := &APIHandler{App: a}
	r.GET("/health", h.HealthHandler)

	// Public: Svix signs the webhook, resend only needs an address.
	r.POST("/api/webhook/clerk", h.ClerkWebhookHandler)
	r.POST("/webhook", h.ClerkWebhookHandler)
	r.POST("/api/auth/resend-confirmation", h.ResendConfirmationHandler)

	protected := r.Group("/", RequireAuth(a.Authenticator))
	protected.POST("/api/ai/invoke", h.InvokeHandler)
	protected.POST("/invoke", h.InvokeHandler)
	protected.POST("/api/model/recommend", h.RecommendHandler)
	protected.POST("/api/prompt/generate", h.GenerateHandler)
	protected.POST("/api/prompt/improve", h.ImproveHandler)
	protected.GET("/api/prompt/result", h.ResultHandler)
	protected.GET("/api/prompt/history", h.HistoryHandler)
	protected.GET("/api/models", h.ListModelsHandler)

	return r
}
