package apihandlers

import (
	"errors"
	"net/http"
	"time"

	"promptpilot/internal/app"
	"promptpilot/internal/models"
	"promptpilot/internal/services"
	"promptpilot/internal/validation"
	"promptpilot/internal/webhook"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type APIHandler struct {
	App *app.App
}

// --- AI ---

type invokeRequest struct {
	Model       string   `json:"model" binding:"required,min=1"`
	Prompt      string   `json:"prompt" binding:"required,min=5"`
	MaxTokens   *int     `json:"max_tokens" binding:"omitempty,gt=0"`
	Temperature *float64 `json:"temperature" binding:"omitempty,gte=0,lte=2"`
	TopP        *float64 `json:"top_p" binding:"omitempty,gte=0,lte=1"`
	Stream      *bool    `json:"stream"`
}

// params applies the defaults for every omitted field.
func (r invokeRequest) params() services.InvokeParams {
	p := services.InvokeParams{
		Model:       r.Model,
		Prompt:      r.Prompt,
		MaxTokens:   services.DefaultInvokeMaxTokens,
		Temperature: services.DefaultInvokeTemperature,
		TopP:        services.DefaultInvokeTopP,
	}
	if r.MaxTokens != nil {
		p.MaxTokens = *r.MaxTokens
	}
	if r.Temperature != nil {
		p.Temperature = *r.Temperature
	}
	if r.TopP != nil {
		p.TopP = *r.TopP
	}
	if r.Stream != nil {
		p.Stream = *r.Stream
	}
	return p
}

type invokeResponse struct {
	ID           uuid.UUID `json:"id"`
	Response     string    `json:"response"`
	Model        string    `json:"model"`
	Tokens       int       `json:"tokens"`
	FinishReason string    `json:"finish_reason"`
}

func (h *APIHandler) InvokeHandler(c *gin.Context) {
	id, err := IdentityFrom(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	var req invokeRequest
	if err := validation.BindJSON(c, &req); err != nil {
		RespondError(c, err)
		return
	}

	res, err := h.App.PromptService.Invoke(c.Request.Context(), id.UserID, req.params())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invokeResponse{
		ID:           res.ID,
		Response:     res.Response,
		Model:        res.Model,
		Tokens:       res.Tokens,
		FinishReason: res.FinishReason,
	})
}

type recommendRequest struct {
	Prompt   string `json:"prompt" binding:"required,min=5"`
	Category string `json:"category" binding:"omitempty,oneof=chat code reasoning writing multimodal"`
}

func (h *APIHandler) RecommendHandler(c *gin.Context) {
	id, err := IdentityFrom(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	var req recommendRequest
	if err := validation.BindJSON(c, &req); err != nil {
		RespondError(c, err)
		return
	}

	res, err := h.App.RecommendationService.Recommend(c.Request.Context(), id.UserID, req.Prompt, req.Category)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// --- Prompts ---

type generateRequest struct {
	Goal    string `json:"goal" binding:"required,min=5"`
	Context string `json:"context"`
}

type generateResponse struct {
	ID       uuid.UUID `json:"id"`
	Prompt   string    `json:"prompt"`
	Category string    `json:"category"`
	Tokens   int       `json:"tokens"`
}

func (h *APIHandler) GenerateHandler(c *gin.Context) {
	id, err := IdentityFrom(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	var req generateRequest
	if err := validation.BindJSON(c, &req); err != nil {
		RespondError(c, err)
		return
	}

	res, err := h.App.PromptService.Generate(c.Request.Context(), id.UserID, req.Goal, req.Context)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, generateResponse{
		ID:       res.ID,
		Prompt:   res.Prompt,
		Category: res.Category.String(),
		Tokens:   res.Tokens,
	})
}

type improveRequest struct {
	Prompt   string `json:"prompt" binding:"required,min=5"`
	Feedback string `json:"feedback"`
}

type improveResponse struct {
	ID       uuid.UUID `json:"id"`
	Original string    `json:"original"`
	Improved string    `json:"improved"`
	Category string    `json:"category"`
	Tokens   int       `json:"tokens"`
}

func (h *APIHandler) ImproveHandler(c *gin.Context) {
	id, err := IdentityFrom(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	var req improveRequest
	if err := validation.BindJSON(c, &req); err != nil {
		RespondError(c, err)
		return
	}

	res, err := h.App.PromptService.Improve(c.Request.Context(), id.UserID, req.Prompt, req.Feedback)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, improveResponse{
		ID:       res.ID,
		Original: res.Original,
		Improved: res.Improved,
		Category: res.Category.String(),
		Tokens:   res.Tokens,
	})
}

type resultQuery struct {
	ID string `form:"id" binding:"required"`
}

type resultResponse struct {
	ID        uuid.UUID `json:"id"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	Model     string    `json:"model"`
	Tokens    int       `json:"tokens"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *APIHandler) ResultHandler(c *gin.Context) {
	id, err := IdentityFrom(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	var q resultQuery
	if err := validation.BindQuery(c, &q); err != nil {
		RespondError(c, err)
		return
	}

	rec, err := h.App.PromptService.GetResult(c.Request.Context(), id.UserID, q.ID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			NotFound(c, "Prompt not found")
			return
		}
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resultResponse{
		ID:        rec.ID,
		Prompt:    rec.OriginalText,
		Response:  rec.ImprovedText,
		Model:     rec.ModelUsed,
		Tokens:    rec.Tokens,
		Category:  rec.Category,
		CreatedAt: rec.CreatedAt,
	})
}

type historyQuery struct {
	Limit  int `form:"limit" binding:"omitempty,gt=0"`
	Offset int `form:"offset" binding:"omitempty,gte=0"`
}

func (h *APIHandler) HistoryHandler(c *gin.Context) {
	id, err := IdentityFrom(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	var q historyQuery
	if err := validation.BindQuery(c, &q); err != nil {
		RespondError(c, err)
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultHistoryLimit
	}
	if q.Limit > maxHistoryLimit {
		q.Limit = maxHistoryLimit
	}

	items, err := h.App.PromptService.History(c.Request.Context(), id.UserID, q.Limit, q.Offset)
	if err != nil {
		RespondError(c, err)
		return
	}
	if items == nil {
		items = []*models.PromptRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// --- Models ---

type modelsQuery struct {
	Category string `form:"category" binding:"omitempty,oneof=chat code reasoning writing multimodal"`
}

func (h *APIHandler) ListModelsHandler(c *gin.Context) {
	var q modelsQuery
	if err := validation.BindQuery(c, &q); err != nil {
		RespondError(c, err)
		return
	}

	list, err := h.App.Catalog.List(c.Request.Context(), q.Category)
	if err != nil {
		RespondError(c, err)
		return
	}
	if list == nil {
		list = []models.ModelDescriptor{}
	}
	c.JSON(http.StatusOK, gin.H{"models": list})
}

// --- Users ---

type resendRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *APIHandler) ResendConfirmationHandler(c *gin.Context) {
	var req resendRequest
	if err := validation.BindJSON(c, &req); err != nil {
		RespondError(c, err)
		return
	}

	if err := h.App.UserService.ResendConfirmation(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, models.ErrValidation) {
			RespondError(c, validation.New("email", "Valid email is required"))
			return
		}
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Confirmation email sent successfully",
	})
}

// ClerkWebhookHandler answers in plain text; Svix only looks at the status.
func (h *APIHandler) ClerkWebhookHandler(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.String(http.StatusBadRequest, "Error reading webhook body")
		return
	}

	err = h.App.Webhooks.Handle(c.Request.Context(), body, c.Request.Header)
	switch {
	case err == nil:
		c.String(http.StatusOK, "Webhook processed successfully")
	case errors.Is(err, webhook.ErrMissingHeaders):
		c.String(http.StatusBadRequest, "Missing svix headers")
	case errors.Is(err, models.ErrConfiguration):
		log.WithError(err).Error("Clerk webhook secret is not configured")
		c.String(http.StatusInternalServerError, "Missing webhook secret")
	case errors.Is(err, models.ErrWebhookVerification):
		log.WithError(err).Warn("Rejected webhook delivery")
		c.String(http.StatusBadRequest, "Error verifying webhook")
	default:
		log.WithError(err).Error("Error processing webhook")
		c.String(http.StatusInternalServerError, "Error processing webhook")
	}
}

// --- Health ---

func (h *APIHandler) HealthHandler(c *gin.Context) {
	if err := h.App.Store.Ping(c.Request.Context()); err != nil {
		log.WithError(err).Warn("Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
