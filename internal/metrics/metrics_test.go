package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"promptpilot/internal/services"
	"promptpilot/pkg/categorizer"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requests.WithLabelValues("/health", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("unmatched", "GET", "404")))
}

func TestObservers(t *testing.T) {
	m := New()
	m.ObserveCompletion("generate", "openrouter", "openai/gpt-4o", services.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15})
	m.ObserveCategory("generate", categorizer.CategoryWriting)
	m.ObserveCategory("generate", categorizer.CategoryWriting)

	assert.Equal(t, 10.0, testutil.ToFloat64(m.tokens.WithLabelValues("generate", "openrouter", "openai/gpt-4o", "prompt")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.tokens.WithLabelValues("generate", "openrouter", "openai/gpt-4o", "completion")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.categories.WithLabelValues("generate", "writing")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveCategory("invoke", categorizer.CategoryCode)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `promptpilot_prompt_categories_total{category="code",operation="invoke"} 1`)
}
