package apihandlers

import (
	"errors"
	"net/http"

	"promptpilot/internal/auth"
	"promptpilot/internal/models"
	"promptpilot/internal/validation"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// APIError defines standard error response
// Example: { "error": { "code": "validation_error", "message": "Invalid request", "details": [...] } }
type APIError struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details []validation.FieldError `json:"details,omitempty"`
}

type errorResponse struct {
	Error APIError `json:"error"`
}

// JSONError sends a structured error response
func JSONError(ctx *gin.Context, status int, code, msg string) {
	ctx.AbortWithStatusJSON(status, errorResponse{Error: APIError{Code: code, Message: msg}})
}

// Convenience wrappers
func Unauthorized(ctx *gin.Context) {
	JSONError(ctx, http.StatusUnauthorized, "unauthorized", "Unauthorized")
}

func NotFound(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusNotFound, "not_found", msg)
}

func Internal(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusInternalServerError, "internal_error", msg)
}

// ValidationFailed reports every violated field.
func ValidationFailed(ctx *gin.Context, verr *validation.Errors) {
	ctx.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: APIError{
		Code:    "validation_error",
		Message: "Invalid request",
		Details: verr.Fields,
	}})
}

// RespondError logs err and translates it into the response for its class.
// Unclassified errors become a 500 without leaking the cause.
func RespondError(c *gin.Context, err error) {
	status, code, msg := classify(err)

	entry := log.WithFields(log.Fields{
		"route":  c.FullPath(),
		"status": status,
	})
	if id, ok := auth.FromContext(c.Request.Context()); ok {
		entry = entry.WithField("user", id.UserID)
	}
	if status >= http.StatusInternalServerError {
		entry.WithError(err).Error("Request failed")
	} else {
		entry.WithError(err).Info("Request rejected")
	}

	var verr *validation.Errors
	if errors.As(err, &verr) {
		ValidationFailed(c, verr)
		return
	}
	JSONError(c, status, code, msg)
}

func classify(err error) (int, string, string) {
	var perr *models.ProviderError
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest, "validation_error", "Invalid request"
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized", "Unauthorized"
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "not_found", "Not found"
	case errors.Is(err, models.ErrWebhookVerification):
		return http.StatusBadRequest, "webhook_verification_failed", "Webhook verification failed"
	case errors.As(err, &perr):
		status := perr.HTTPStatus()
		switch status {
		case http.StatusUnauthorized:
			return status, "provider_unauthorized", "AI provider rejected the API key"
		case http.StatusTooManyRequests:
			return status, "rate_limited", "AI provider rate limit exceeded"
		default:
			return status, "provider_error", "AI provider request failed"
		}
	case errors.Is(err, models.ErrConfiguration):
		return http.StatusInternalServerError, "configuration_error", "Server configuration error"
	case errors.Is(err, models.ErrPersistence):
		return http.StatusInternalServerError, "persistence_error", "Failed to save data"
	default:
		return http.StatusInternalServerError, "internal_error", "Internal server error"
	}
}
