package app

import (
	"context"
	"testing"

	"promptpilot/internal/auth"
	"promptpilot/internal/config"
	"promptpilot/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfigFrom(t.TempDir())
	require.NoError(t, err)
	cfg.Database.UseInMemory = true
	cfg.Auth.Mode = "header"
	cfg.Redis.Address = ""
	cfg.Provider.Name = "openrouter"
	cfg.Provider.OpenRouterAPIKey = ""
	return cfg
}

func TestNewApp_InMemory(t *testing.T) {
	a, err := NewApp(context.Background(), localConfig(t))
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Store)
	assert.NoError(t, a.Store.Ping(context.Background()))
	assert.Nil(t, a.JobClient)
	assert.Equal(t, "openrouter", a.Provider.Name())
	assert.Equal(t, services.ProviderStatusDisabled, a.Provider.Status())
	assert.IsType(t, auth.HeaderAuthenticator{}, a.Authenticator)

	for name, v := range map[string]any{
		"PromptService":         a.PromptService,
		"RecommendationService": a.RecommendationService,
		"UserService":           a.UserService,
		"CostService":           a.CostService,
		"Catalog":               a.Catalog,
		"Classifier":            a.Classifier,
		"Webhooks":              a.Webhooks,
		"Metrics":               a.Metrics,
	} {
		assert.NotNil(t, v, name)
	}
}

func TestNewApp_UnknownProvider(t *testing.T) {
	cfg := localConfig(t)
	cfg.Provider.Name = "anthropic"

	_, err := NewApp(context.Background(), cfg)
	assert.ErrorContains(t, err, "unknown completion provider")
}

func TestNewApp_MissingTemplateFile(t *testing.T) {
	cfg := localConfig(t)
	cfg.Prompts.GenerateTemplate = "/nonexistent/generate.txt"

	_, err := NewApp(context.Background(), cfg)
	assert.ErrorContains(t, err, "load generate template")
}
